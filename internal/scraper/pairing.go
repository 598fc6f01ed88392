package scraper

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
)

const (
	PairingPosition = "position"
	PairingCursor   = "cursor"
)

// PairingStrategy matches result items with the page-wide company/location
// span list, which is not nested per item.
type PairingStrategy interface {
	Name() string
	Start(spans []string) Pairing
}

// Pairing is the per-page state of a strategy.
type Pairing interface {
	// Assign returns the company and location for the item at position.
	Assign(position int) (company, location *string)
	// Parsed reports that the item at position was parsed.
	Parsed(position int)
}

func PairingByName(name string) (PairingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PairingPosition:
		return PositionPairing{}, nil
	case PairingCursor:
		return CursorPairing{}, nil
	default:
		return nil, fmt.Errorf("unknown pairing strategy: %s", name)
	}
}

// PositionPairing gives the item at DOM position k the spans 2k and 2k+1,
// so an unparsable item never shifts its siblings.
type PositionPairing struct{}

func (PositionPairing) Name() string { return PairingPosition }

func (PositionPairing) Start(spans []string) Pairing {
	return positionPairing{spans: spans}
}

type positionPairing struct {
	spans []string
}

func (p positionPairing) Assign(position int) (*string, *string) {
	return spanAt(p.spans, 2*position), spanAt(p.spans, 2*position+1)
}

func (positionPairing) Parsed(int) {}

// CursorPairing advances a cursor by two only after an item parses. A
// failed item leaves the cursor in place and every later item is paired
// with the previous item's spans.
type CursorPairing struct{}

func (CursorPairing) Name() string { return PairingCursor }

func (CursorPairing) Start(spans []string) Pairing {
	return &cursorPairing{spans: spans}
}

type cursorPairing struct {
	spans  []string
	cursor int
}

func (p *cursorPairing) Assign(int) (*string, *string) {
	return spanAt(p.spans, p.cursor), spanAt(p.spans, p.cursor+1)
}

func (p *cursorPairing) Parsed(int) {
	p.cursor += 2
}

func spanAt(spans []string, index int) *string {
	if index < 0 || index >= len(spans) {
		return nil
	}
	value := strings.TrimSpace(spans[index])
	if value == "" {
		return nil
	}
	return models.String(value)
}
