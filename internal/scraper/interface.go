package scraper

import (
	"context"
	"errors"
	"iter"

	"github.com/jimezsa/jobber/internal/models"
)

// ErrNoResultsFound is returned when a results page has no results list.
var ErrNoResultsFound = errors.New("no results list found")

// JobStore is the part of the job store the scanner and enricher write to.
type JobStore interface {
	Put(ctx context.Context, job models.Job) error
	Get(ctx context.Context, id string) (models.Job, error)
	Patch(ctx context.Context, id string, patch models.JobPatch) (models.Job, error)
	List(ctx context.Context) iter.Seq2[models.Job, error]
}
