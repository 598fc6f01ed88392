package pipeline

import "github.com/jimezsa/jobber/internal/models"

type Stage string

const (
	StageEnrich      Stage = "enrich"
	StageCoverLetter Stage = "cover_letter"
	StageApply       Stage = "apply"
)

// Failure is one job that dropped out of the run.
type Failure struct {
	JobID string `json:"job_id"`
	URL   string `json:"url"`
	Stage Stage  `json:"stage"`
	Error string `json:"error"`
}

type Report struct {
	Scanned    int              `json:"scanned"`
	Enriched   int              `json:"enriched"`
	Applied    int              `json:"applied"`
	NotApplied int              `json:"not_applied"`
	Outcomes   []models.Outcome `json:"outcomes,omitempty"`
	Failures   []Failure        `json:"failures,omitempty"`
}

func (r *Report) fail(job models.Job, stage Stage, err error) {
	r.Failures = append(r.Failures, Failure{JobID: job.ID, URL: job.URL, Stage: stage, Error: err.Error()})
}

// FailedAt counts failures at stage.
func (r Report) FailedAt(stage Stage) int {
	n := 0
	for _, f := range r.Failures {
		if f.Stage == stage {
			n++
		}
	}
	return n
}
