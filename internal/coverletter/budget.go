package coverletter

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Budget trims job descriptions to a token limit before they go into a
// prompt.
type Budget struct {
	encoding  *tiktoken.Tiktoken
	maxTokens int
}

func NewBudget(maxTokens int) (*Budget, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}
	return &Budget{encoding: encoding, maxTokens: maxTokens}, nil
}

func (b *Budget) Count(text string) int {
	return len(b.encoding.Encode(text, nil, nil))
}

// Trim returns text cut to at most maxTokens tokens.
func (b *Budget) Trim(text string) string {
	if b == nil || b.maxTokens <= 0 {
		return text
	}
	tokens := b.encoding.Encode(text, nil, nil)
	if len(tokens) <= b.maxTokens {
		return text
	}
	return b.encoding.Decode(tokens[:b.maxTokens])
}
