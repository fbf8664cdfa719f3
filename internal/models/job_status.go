package models

/*
Job status and request source constants for use throughout the codebase.
Centralizing these avoids magic strings and improves maintainability.
*/

// Job status constants. The backend reports "processing" on the wire for the
// active state; NormalizeStatus maps it to JobStatusRunning.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusRunning    = "running"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Request source constants, recorded in the local submission history.
const (
	SourceStock  = "stock"
	SourceRaw    = "raw"
	SourceLBO    = "lbo"
	SourceMA     = "ma"
	SourceUpload = "upload"
)

// Export format constants
const (
	ExportFormatPDF  = "pdf"
	ExportFormatPPTX = "pptx"
)

// NormalizeStatus maps wire status spellings to the canonical set.
func NormalizeStatus(status string) string {
	if status == JobStatusProcessing {
		return JobStatusRunning
	}
	return status
}

// IsTerminalStatus reports whether a job in this status will never change again.
func IsTerminalStatus(status string) bool {
	s := NormalizeStatus(status)
	return s == JobStatusCompleted || s == JobStatusFailed
}
