package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"finmodel/internal/models"
)

// DefaultPollInterval matches the original UI's fixed 1-second status timer.
const DefaultPollInterval = time.Second

// Backend is the client surface the tracker needs.
type Backend interface {
	SubmitGeneration(ctx context.Context, req models.GenerationRequest) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
}

// HistoryRecorder persists submissions locally. Optional; a nil recorder
// disables history without affecting the lifecycle.
type HistoryRecorder interface {
	RecordSubmission(ctx context.Context, jobID, subject, source string) error
	MarkTerminal(ctx context.Context, jobID, status, filename string) error
}

// Tracker drives a single in-flight job from submission to terminal state and
// exposes the current snapshot. At most one job is tracked at a time; a new
// submission abandons the previous job without signalling the backend.
type Tracker struct {
	backend  Backend
	history  HistoryRecorder
	interval time.Duration

	mu     sync.Mutex
	job    *models.Job
	cancel context.CancelFunc
	done   chan struct{}
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithPollInterval overrides the fixed poll interval.
func WithPollInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithHistory attaches a local submission history recorder.
func WithHistory(h HistoryRecorder) TrackerOption {
	return func(t *Tracker) { t.history = h }
}

// NewTracker creates a lifecycle tracker over the given backend.
func NewTracker(backend Backend, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		backend:  backend,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Submit validates the variant, issues one submission call and starts the
// poll ticker. On validation failure no network call is made and the snapshot
// stays empty. Any previously tracked job is discarded first.
func (t *Tracker) Submit(ctx context.Context, req models.GenerationRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", &models.SubmissionError{Message: err.Error()}
	}

	t.Discard()

	job, err := t.backend.SubmitGeneration(ctx, req)
	if err != nil {
		return "", err
	}

	snapshot := *job
	if snapshot.Status == "" {
		snapshot.Status = models.JobStatusPending
	}
	snapshot.Progress = 0

	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	t.job = &snapshot
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	if t.history != nil {
		if err := t.history.RecordSubmission(ctx, snapshot.ID, req.Subject(), req.Source()); err != nil {
			log.WithError(err).Warn("failed to record submission in local history")
		}
	}

	log.WithFields(log.Fields{"job_id": snapshot.ID, "source": req.Source()}).
		Info("model generation submitted")

	go t.pollLoop(pollCtx, snapshot.ID, done)

	return snapshot.ID, nil
}

// Track begins polling an existing job, e.g. one submitted in a previous
// session. The first snapshot is fetched synchronously so the caller sees
// state before the ticker starts; a terminal job is returned without polling.
func (t *Tracker) Track(ctx context.Context, jobID string) (models.Job, error) {
	job, err := t.backend.GetJob(ctx, jobID)
	if err != nil {
		return models.Job{}, err
	}

	t.Discard()

	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	t.job = job
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	if job.Terminal() {
		close(done)
		cancel()
		return *job, nil
	}

	go t.pollLoop(pollCtx, jobID, done)
	return *job, nil
}

// pollLoop performs one status check per tick until the job reaches a
// terminal state or the context is cancelled. Transport failures are logged
// and the previous snapshot retained; no retry backoff, no propagation.
func (t *Tracker) pollLoop(ctx context.Context, jobID string, done chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		job, err := t.backend.GetJob(ctx, jobID)
		if err != nil {
			pollErr := &models.PollError{JobID: jobID, Err: err}
			log.WithError(pollErr).Warn("status poll failed, keeping last snapshot")
			continue
		}

		t.mu.Lock()
		// A discard may have raced the response; drop stale updates.
		if t.job == nil || t.job.ID != jobID {
			t.mu.Unlock()
			return
		}
		t.job = job
		t.mu.Unlock()

		if job.Terminal() {
			log.WithFields(log.Fields{"job_id": jobID, "status": job.DisplayStatus()}).
				Info("job reached terminal state")
			if t.history != nil {
				if err := t.history.MarkTerminal(context.Background(), jobID, job.DisplayStatus(), job.Filename); err != nil {
					log.WithError(err).Warn("failed to update local history")
				}
			}
			close(done)
			return
		}
	}
}

// Snapshot returns a copy of the tracked job, if any.
func (t *Tracker) Snapshot() (models.Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.job == nil {
		return models.Job{}, false
	}
	return *t.job, true
}

// Wait blocks until the tracked job reaches a terminal state or ctx is done,
// then returns the final snapshot.
func (t *Tracker) Wait(ctx context.Context) (models.Job, error) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return models.Job{}, models.ErrNoJob
	}

	select {
	case <-ctx.Done():
		return models.Job{}, ctx.Err()
	case <-done:
	}

	job, ok := t.Snapshot()
	if !ok {
		return models.Job{}, models.ErrNoJob
	}
	return job, nil
}

// Discard stops polling and drops the tracked snapshot. The backend is not
// notified; the job keeps running remotely.
func (t *Tracker) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.job = nil
	t.done = nil
}
