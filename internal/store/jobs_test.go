package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jimezsa/jobber/internal/models"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobber.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func stub(id string) models.Job {
	return models.Job{
		ID:       id,
		Title:    "Go Developer " + id,
		Company:  models.String("Acme"),
		Location: models.String("New York, NY"),
		URL:      "https://example.com/jobs/" + id,
		Status:   models.StatusDiscovered,
	}
}

func TestPutGet(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	job := stub("a")
	if err := s.Put(ctx, job); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, job) {
		t.Fatalf("Get() = %+v, want %+v", got, job)
	}
	if got.Salary != nil || got.Benefits != nil || got.ApplyAction != nil {
		t.Fatalf("expected unchecked detail fields, got %+v", got)
	}
}

func TestPutDuplicate(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, stub("a")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	err := s.Put(ctx, stub("a"))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("Put() error = %v, want ErrDuplicateKey", err)
	}
}

func TestPatchOverlaysOnlySuppliedFields(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	job := stub("a")
	if err := s.Put(ctx, job); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	enriched := models.StatusEnriched
	patch := models.JobPatch{
		Salary:      models.String(models.NotAvailable),
		Benefits:    []string{},
		Description: models.String("## About"),
		Status:      &enriched,
	}
	if _, err := s.Patch(ctx, "a", patch); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := patch.Apply(job)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Get() = %+v, want %+v", got, want)
	}

	// An empty patch keeps everything, including the empty benefits list.
	if _, err := s.Patch(ctx, "a", models.JobPatch{}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	again, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Fatalf("Get() after empty patch = %+v, want %+v", again, want)
	}
	if again.Benefits == nil {
		t.Fatalf("expected empty benefits list, got nil")
	}
}

func TestPatchMissing(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.Patch(context.Background(), "missing", models.JobPatch{Title: models.String("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Patch() error = %v, want ErrNotFound", err)
	}
}

func TestListCreationOrderAndStatus(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := s.Put(ctx, stub(id)); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}
	enriched := models.StatusEnriched
	if _, err := s.Patch(ctx, "a", models.JobPatch{Status: &enriched}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	all, err := Collect(s.List(ctx))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := ids(all); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("List() ids = %v, want [c a b]", got)
	}

	discovered, err := Collect(s.ListByStatus(ctx, models.StatusDiscovered))
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if got := ids(discovered); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("ListByStatus() ids = %v, want [c b]", got)
	}
}

func TestListAllowsWritesWhileRanging(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := s.Put(ctx, stub(id)); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	seq := s.List(ctx)
	for job, err := range seq {
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if _, err := s.Patch(ctx, job.ID, models.JobPatch{Salary: models.String("$1")}); err != nil {
			t.Fatalf("Patch(%s) error = %v", job.ID, err)
		}
	}

	// Restarting the sequence observes the writes.
	for job, err := range seq {
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if models.Deref(job.Salary, "") != "$1" {
			t.Fatalf("job %s salary = %v, want $1", job.ID, job.Salary)
		}
	}
}

func TestDelete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, stub("a")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestWritesVisibleAfterReopen(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, stub("a")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := s.Patch(ctx, "a", models.JobPatch{Benefits: []string{"401k", "Dental"}}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	other, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() second handle error = %v", err)
	}
	defer other.Close()

	got, err := other.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got.Benefits, []string{"401k", "Dental"}) {
		t.Fatalf("Benefits = %#v, want [401k Dental]", got.Benefits)
	}
}

func ids(jobs []models.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, job.ID)
	}
	return out
}
