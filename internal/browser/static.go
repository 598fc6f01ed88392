package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Static serves fixed HTML by URL. It records every navigation.
type Static struct {
	Pages  map[string]string
	Errors map[string]error

	mu     sync.Mutex
	visits []string
}

func NewStatic(pages map[string]string) *Static {
	return &Static{Pages: pages, Errors: map[string]error{}}
}

func (s *Static) Navigate(ctx context.Context, target string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.visits = append(s.visits, target)
	html, ok := s.Pages[target]
	navErr := s.Errors[target]
	s.mu.Unlock()

	if navErr != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, navErr)
	}
	if !ok {
		return nil, fmt.Errorf("navigate %s: http 404", target)
	}
	return NewPage(target, strings.NewReader(html))
}

// Visits returns the URLs navigated to, in order.
func (s *Static) Visits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.visits...)
}
