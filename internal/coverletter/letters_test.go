package coverletter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/rs/zerolog"
)

type scriptedGenerator struct {
	letters      []string
	descriptions []string
}

func (g *scriptedGenerator) Generate(_ context.Context, description string, _ models.Profile) (string, error) {
	g.descriptions = append(g.descriptions, description)
	letter := g.letters[0]
	if len(g.letters) > 1 {
		g.letters = g.letters[1:]
	}
	return letter, nil
}

type approveNth struct {
	n     int
	calls int
}

func (a *approveNth) Approve(context.Context, models.Job, string) (bool, error) {
	a.calls++
	return a.calls == a.n, nil
}

var testJob = models.Job{
	ID:          "42",
	Title:       "Go Engineer",
	URL:         "https://www.indeed.com/viewjob?jk=42",
	Description: models.String("Build things in Go."),
}

func TestCoverLetterWritesApprovedDraft(t *testing.T) {
	dir := t.TempDir()
	gen := &scriptedGenerator{letters: []string{"first draft", "second draft"}}
	approver := &approveNth{n: 2}
	letters := &Letters{Generator: gen, Approver: approver, Dir: dir, Logger: zerolog.Nop()}

	path, err := letters.CoverLetter(context.Background(), testJob)
	if err != nil {
		t.Fatalf("CoverLetter() error = %v", err)
	}
	if want := filepath.Join(dir, "cover_letter_42.md"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "second draft" {
		t.Fatalf("letter = %q, want second draft", got)
	}
	if len(gen.descriptions) != 2 || gen.descriptions[0] != "Build things in Go." {
		t.Fatalf("descriptions = %v", gen.descriptions)
	}
}

func TestCoverLetterGivesUpAfterMaxAttempts(t *testing.T) {
	gen := &scriptedGenerator{letters: []string{"draft"}}
	approver := &approveNth{n: -1}
	letters := &Letters{Generator: gen, Approver: approver, Dir: t.TempDir(), MaxAttempts: 2, Logger: zerolog.Nop()}

	_, err := letters.CoverLetter(context.Background(), testJob)
	if !errors.Is(err, ErrNotApproved) {
		t.Fatalf("CoverLetter() error = %v, want ErrNotApproved", err)
	}
	if approver.calls != 2 {
		t.Fatalf("approve calls = %d, want 2", approver.calls)
	}
}

func TestCoverLetterUsesSentinelForMissingDescription(t *testing.T) {
	gen := &scriptedGenerator{letters: []string{"draft"}}
	letters := &Letters{Generator: gen, Dir: t.TempDir(), Logger: zerolog.Nop()}
	job := testJob
	job.Description = nil

	if _, err := letters.CoverLetter(context.Background(), job); err != nil {
		t.Fatalf("CoverLetter() error = %v", err)
	}
	if gen.descriptions[0] != models.NotAvailable {
		t.Fatalf("description = %q, want %q", gen.descriptions[0], models.NotAvailable)
	}
}

func TestPDFCommandRunsConverter(t *testing.T) {
	cp, err := exec.LookPath("cp")
	if err != nil {
		t.Skip("cp not available")
	}
	dir := t.TempDir()
	markdown := filepath.Join(dir, "cover_letter_1.md")
	if err := os.WriteFile(markdown, []byte("# Hello"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	path, err := PDFCommand{Path: cp}.Convert(context.Background(), markdown)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if want := filepath.Join(dir, "cover_letter_1.pdf"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("converted file missing: %v", err)
	}
}

func TestPDFCommandEmptyKeepsMarkdown(t *testing.T) {
	path, err := PDFCommand{}.Convert(context.Background(), "/tmp/letter.md")
	if err != nil || path != "/tmp/letter.md" {
		t.Fatalf("Convert() = %q, %v; want markdown path", path, err)
	}
}
