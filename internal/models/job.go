package models

import "time"

// ValidationIssue is a single QA finding reported by the backend validator.
// The backend emits heterogeneous dicts here, so the fields are kept loose.
type ValidationIssue struct {
	Severity string `json:"severity,omitempty"`
	Sheet    string `json:"sheet,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Validation is the backend's QA verdict attached to a completed job.
type Validation struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
}

// Job is the client's read-only snapshot of a model generation job. It is
// created by the backend on submission, mutated only by the backend, and
// refreshed here on each poll.
type Job struct {
	ID          string      `json:"job_id"`
	Status      string      `json:"status"`
	Progress    int         `json:"progress"`
	Message     string      `json:"message"`
	CompanyName string      `json:"company_name,omitempty"`
	Industry    string      `json:"industry,omitempty"`
	DownloadURL string      `json:"download_url,omitempty"`
	Filename    string      `json:"filename,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
}

// Terminal reports whether the job has reached completed or failed.
func (j Job) Terminal() bool {
	return IsTerminalStatus(j.Status)
}

// Active reports whether the job is still pending or running.
func (j Job) Active() bool {
	s := NormalizeStatus(j.Status)
	return s == JobStatusPending || s == JobStatusRunning
}

// Downloadable reports whether the job has an artifact ready to fetch.
func (j Job) Downloadable() bool {
	return NormalizeStatus(j.Status) == JobStatusCompleted && j.DownloadURL != ""
}

// DisplayStatus returns the canonical status spelling for rendering.
func (j Job) DisplayStatus() string {
	return NormalizeStatus(j.Status)
}
