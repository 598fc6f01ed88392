package models

type Result string

const (
	ResultApplied    Result = "applied"
	ResultNotApplied Result = "not_applied"
)

// ApplyState is the last state the application agent reached for a job.
type ApplyState string

const (
	StateStart              ApplyState = "start"
	StateOnDetailPage       ApplyState = "on_detail_page"
	StateScanningOutlinks   ApplyState = "scanning_outlinks"
	StateEmailFoundDirect   ApplyState = "email_found_direct"
	StateEmailFoundIndirect ApplyState = "email_found_indirect"
	StateExhausted          ApplyState = "exhausted"
)

// Outcome is the ephemeral result of one application attempt. It is logged
// and reported, never stored.
type Outcome struct {
	JobID   string     `json:"job_id"`
	Title   string     `json:"title"`
	Result  Result     `json:"result"`
	State   ApplyState `json:"state"`
	Emails  []string   `json:"emails,omitempty"`
	Source  string     `json:"source,omitempty"`
	Visited []string   `json:"visited,omitempty"`
}

func (o Outcome) Applied() bool {
	return o.Result == ResultApplied
}
