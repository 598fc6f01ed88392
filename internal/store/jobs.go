package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when no job has the requested id.
	ErrNotFound = errors.New("job not found")

	// ErrDuplicateKey is returned when inserting an id that already exists.
	ErrDuplicateKey = errors.New("job id already exists")
)

// Store keeps job records in a single sqlite table keyed by id. Every
// mutating call commits before it returns.
type Store struct {
	db *sqlx.DB
}

type jobRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Location    sql.NullString `db:"location"`
	Company     sql.NullString `db:"company"`
	Salary      sql.NullString `db:"salary"`
	Benefits    sql.NullString `db:"benefits"`
	Description sql.NullString `db:"description"`
	ApplyAction sql.NullString `db:"apply_action"`
	URL         string         `db:"url"`
	Status      string         `db:"status"`
}

const selectJobs = `SELECT id, title, location, company, salary, benefits, description, apply_action, url, status FROM jobs`

// Put inserts a new job.
func (s *Store) Put(ctx context.Context, job models.Job) error {
	if job.ID == "" {
		return fmt.Errorf("put job: id is required")
	}
	if job.URL == "" {
		return fmt.Errorf("put job %s: url is required", job.ID)
	}
	if job.Status == "" {
		job.Status = models.StatusDiscovered
	}

	row, err := toRow(job)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := getRow(ctx, tx, job.ID); err == nil {
		return fmt.Errorf("put job %s: %w", job.ID, ErrDuplicateKey)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, err := tx.NamedExecContext(ctx, `
INSERT INTO jobs (id, title, location, company, salary, benefits, description, apply_action, url, status)
VALUES (:id, :title, :location, :company, :salary, :benefits, :description, :apply_action, :url, :status);`, row); err != nil {
		return fmt.Errorf("insert job %s: %w", job.ID, err)
	}

	return tx.Commit()
}

// Patch overlays the supplied fields onto the stored job and returns the
// updated record. The url is never changed.
func (s *Store) Patch(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Job{}, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getRow(ctx, tx, id)
	if err != nil {
		return models.Job{}, fmt.Errorf("patch job %s: %w", id, err)
	}
	job, err := fromRow(current)
	if err != nil {
		return models.Job{}, err
	}

	job = patch.Apply(job)
	row, err := toRow(job)
	if err != nil {
		return models.Job{}, err
	}

	if _, err := tx.NamedExecContext(ctx, `
UPDATE jobs
SET title = :title,
    location = :location,
    company = :company,
    salary = :salary,
    benefits = :benefits,
    description = :description,
    apply_action = :apply_action,
    status = :status
WHERE id = :id;`, row); err != nil {
		return models.Job{}, fmt.Errorf("update job %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// Get returns the job with id.
func (s *Store) Get(ctx context.Context, id string) (models.Job, error) {
	row, err := getRow(ctx, s.db, id)
	if err != nil {
		return models.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return fromRow(row)
}

// List yields every job in creation order. Each iteration reads a fresh
// snapshot, so callers may mutate the store while ranging.
func (s *Store) List(ctx context.Context) iter.Seq2[models.Job, error] {
	return s.list(ctx, selectJobs+` ORDER BY rowid;`)
}

// ListByStatus yields jobs with the given status in creation order.
func (s *Store) ListByStatus(ctx context.Context, status models.Status) iter.Seq2[models.Job, error] {
	return s.list(ctx, selectJobs+` WHERE status = ? ORDER BY rowid;`, string(status))
}

func (s *Store) list(ctx context.Context, query string, args ...any) iter.Seq2[models.Job, error] {
	return func(yield func(models.Job, error) bool) {
		var rows []jobRow
		if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
			yield(models.Job{}, fmt.Errorf("list jobs: %w", err))
			return
		}
		for _, row := range rows {
			job, err := fromRow(row)
			if !yield(job, err) {
				return
			}
		}
	}
}

// Delete removes the job with id. Deleting a missing id is an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("delete job %s: %w", id, ErrNotFound)
	}
	return nil
}

// Collect drains a job sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[models.Job, error]) ([]models.Job, error) {
	var jobs []models.Job
	for job, err := range seq {
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func getRow(ctx context.Context, q sqlx.QueryerContext, id string) (jobRow, error) {
	var row jobRow
	if err := sqlx.GetContext(ctx, q, &row, selectJobs+` WHERE id = ?;`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, ErrNotFound
		}
		return row, err
	}
	return row, nil
}

func toRow(job models.Job) (jobRow, error) {
	row := jobRow{
		ID:          job.ID,
		Title:       job.Title,
		Location:    nullString(job.Location),
		Company:     nullString(job.Company),
		Salary:      nullString(job.Salary),
		Description: nullString(job.Description),
		ApplyAction: nullString(job.ApplyAction),
		URL:         job.URL,
		Status:      string(job.Status),
	}
	if job.Benefits != nil {
		data, err := json.Marshal(job.Benefits)
		if err != nil {
			return row, fmt.Errorf("encode benefits for %s: %w", job.ID, err)
		}
		row.Benefits = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

func fromRow(row jobRow) (models.Job, error) {
	job := models.Job{
		ID:          row.ID,
		Title:       row.Title,
		Location:    stringPtr(row.Location),
		Company:     stringPtr(row.Company),
		Salary:      stringPtr(row.Salary),
		Description: stringPtr(row.Description),
		ApplyAction: stringPtr(row.ApplyAction),
		URL:         row.URL,
		Status:      models.Status(row.Status),
	}
	if row.Benefits.Valid {
		benefits := []string{}
		if err := json.Unmarshal([]byte(row.Benefits.String), &benefits); err != nil {
			return job, fmt.Errorf("decode benefits for %s: %w", row.ID, err)
		}
		job.Benefits = benefits
	}
	return job, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return models.String(value.String)
}
