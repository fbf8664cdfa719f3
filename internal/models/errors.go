package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoJob       = errors.New("no job submitted")
	ErrJobNotReady = errors.New("job artifact not ready for download")
	ErrNotFound    = errors.New("not found")
)

// SubmissionError covers bad input and non-success responses during submit.
// The message is caller-facing.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission failed: %s: %v", e.Message, e.Err)
	}
	return "submission failed: " + e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PollError is a transport failure during a status check. Polling swallows
// these: the error is logged and the previous snapshot is retained.
type PollError struct {
	JobID string
	Err   error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("poll failed for job %s: %v", e.JobID, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// DownloadError is an artifact or export fetch failure. Surfaced to the user
// as a transient condition, never fatal.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed for %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
