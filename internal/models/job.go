package models

// NotAvailable marks a detail field that was looked for and not found.
const NotAvailable = "N/A"

// Status tracks how far a job has moved through the pipeline.
type Status string

const (
	StatusDiscovered Status = "discovered"
	StatusEnriched   Status = "enriched"
)

// Job is the persisted posting. Nil pointers and a nil Benefits slice mean
// the field has not been checked yet; NotAvailable and an empty slice mean
// it was checked and not found.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    *string  `json:"location"`
	Company     *string  `json:"company"`
	Salary      *string  `json:"salary"`
	Benefits    []string `json:"benefits"`
	Description *string  `json:"description"`
	ApplyAction *string  `json:"apply_action"`
	URL         string   `json:"url"`
	Status      Status   `json:"status"`
}

// JobPatch carries the fields an update supplies. Nil fields are left as
// stored. A non-nil empty Benefits slice stores an empty list.
type JobPatch struct {
	Title       *string
	Location    *string
	Company     *string
	Salary      *string
	Benefits    []string
	Description *string
	ApplyAction *string
	Status      *Status
}

// Apply overlays the supplied fields onto job and returns the result.
func (p JobPatch) Apply(job Job) Job {
	if p.Title != nil {
		job.Title = *p.Title
	}
	if p.Location != nil {
		job.Location = String(*p.Location)
	}
	if p.Company != nil {
		job.Company = String(*p.Company)
	}
	if p.Salary != nil {
		job.Salary = String(*p.Salary)
	}
	if p.Benefits != nil {
		job.Benefits = append([]string{}, p.Benefits...)
	}
	if p.Description != nil {
		job.Description = String(*p.Description)
	}
	if p.ApplyAction != nil {
		job.ApplyAction = String(*p.ApplyAction)
	}
	if p.Status != nil {
		job.Status = *p.Status
	}
	return job
}

func String(value string) *string {
	return &value
}

// Deref returns the pointed-to value or fallback when nil.
func Deref(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
