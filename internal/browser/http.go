package browser

import (
	"context"
	"fmt"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobber/internal/network"
)

// HTTPSession fetches pages with the browser-fingerprinted HTTP client.
// Navigation and parsing run as one critical section.
type HTTPSession struct {
	client  *network.Client
	headers map[string]string
	mu      sync.Mutex
}

func NewHTTPSession(client *network.Client) *HTTPSession {
	return &HTTPSession{
		client: client,
		headers: map[string]string{
			"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"accept-language": "en-US,en;q=0.9",
		},
	}
}

func (s *HTTPSession) Navigate(ctx context.Context, target string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("navigate %s: http %d", target, resp.StatusCode)
	}

	pageURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL.String()
	}

	page, err := NewPage(pageURL, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}
	return page, nil
}
