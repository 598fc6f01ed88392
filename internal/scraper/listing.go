package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jimezsa/jobber/internal/browser"
	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/seen"
	"github.com/jimezsa/jobber/internal/store"
	"github.com/rs/zerolog"
)

// ListingScanner turns a search results page into stored job stubs.
type ListingScanner struct {
	store     JobStore
	pairing   PairingStrategy
	selectors ListingSelectors
	logger    zerolog.Logger
	newID     func() string
}

func NewListingScanner(jobs JobStore, pairing PairingStrategy, logger zerolog.Logger) *ListingScanner {
	if pairing == nil {
		pairing = PositionPairing{}
	}
	return &ListingScanner{
		store:     jobs,
		pairing:   pairing,
		selectors: IndeedListing,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Scan parses every result item on page, stores the new ones with status
// discovered and returns them. Items that fail to parse are skipped.
func (s *ListingScanner) Scan(ctx context.Context, page *browser.Page) ([]models.Job, error) {
	container, err := page.Find(s.selectors.Container)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", page.URL, ErrNoResultsFound)
	}
	list, err := container.Find(s.selectors.List)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", page.URL, ErrNoResultsFound)
	}

	known, err := s.knownJobs(ctx)
	if err != nil {
		return nil, err
	}

	var spans []string
	for _, span := range page.FindAll(s.selectors.Spans) {
		spans = append(spans, span.Text())
	}
	pairing := s.pairing.Start(spans)

	items := list.Children(s.selectors.Item)
	var found []models.Job
	for position, item := range items {
		stub, err := s.parseItem(item)
		if err != nil {
			s.logger.Warn().Err(err).Int("position", position).Str("url", page.URL).Msg("skipping result item")
			continue
		}
		stub.Company, stub.Location = pairing.Assign(position)

		if !known.Add(stub) {
			s.logger.Debug().Str("title", stub.Title).Str("url", stub.URL).Msg("already discovered")
			pairing.Parsed(position)
			continue
		}

		stub.ID = s.newID()
		stub.Status = models.StatusDiscovered
		if err := s.store.Put(ctx, stub); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				s.logger.Warn().Err(err).Int("position", position).Msg("skipping result item")
				continue
			}
			return found, err
		}
		pairing.Parsed(position)

		s.logger.Info().
			Str("job_id", stub.ID).
			Str("title", stub.Title).
			Str("company", models.Deref(stub.Company, "")).
			Str("location", models.Deref(stub.Location, "")).
			Msg("discovered job")
		found = append(found, stub)
	}

	return found, nil
}

func (s *ListingScanner) parseItem(item *browser.Element) (models.Job, error) {
	heading, err := item.Find(s.selectors.Heading)
	if err != nil {
		return models.Job{}, fmt.Errorf("heading: %w", err)
	}
	link, err := heading.Find(s.selectors.Link)
	if err != nil {
		return models.Job{}, fmt.Errorf("title link: %w", err)
	}
	jobURL := link.Href()
	if jobURL == "" {
		return models.Job{}, errors.New("title link has no href")
	}

	titleSpan, err := heading.Find(s.selectors.Title)
	if err != nil {
		return models.Job{}, fmt.Errorf("title: %w", err)
	}
	title, _ := titleSpan.Attr("title")
	if title == "" {
		title = titleSpan.Text()
	}
	if title == "" {
		return models.Job{}, errors.New("empty title")
	}

	return models.Job{Title: title, URL: jobURL}, nil
}

func (s *ListingScanner) knownJobs(ctx context.Context) (seen.Index, error) {
	known, err := store.Collect(s.store.List(ctx))
	if err != nil {
		return nil, fmt.Errorf("load known jobs: %w", err)
	}
	return seen.NewIndex(known), nil
}
