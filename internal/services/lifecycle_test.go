package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmodel/internal/models"
	"finmodel/internal/services"
)

// pollResult is one scripted GetJob response.
type pollResult struct {
	job *models.Job
	err error
}

// fakeBackend scripts submit and poll responses and counts calls.
type fakeBackend struct {
	mu          sync.Mutex
	submitCalls int
	pollCalls   int
	submitJob   *models.Job
	submitErr   error
	polls       []pollResult
}

func (f *fakeBackend) SubmitGeneration(ctx context.Context, req models.GenerationRequest) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	job := *f.submitJob
	return &job, nil
}

func (f *fakeBackend) GetJob(ctx context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.pollCalls
	f.pollCalls++
	if idx >= len(f.polls) {
		idx = len(f.polls) - 1
	}
	res := f.polls[idx]
	if res.err != nil {
		return nil, res.err
	}
	job := *res.job
	return &job, nil
}

func (f *fakeBackend) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls, f.pollCalls
}

func job(id, status string, progress int) *models.Job {
	return &models.Job{ID: id, Status: status, Progress: progress}
}

const testInterval = 10 * time.Millisecond

func TestSubmitValidationFailureIssuesNoCall(t *testing.T) {
	backend := &fakeBackend{submitJob: job("j1", models.JobStatusPending, 0)}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))

	_, err := tracker.Submit(context.Background(), models.NewStockRequest(""))
	require.Error(t, err)

	var subErr *models.SubmissionError
	require.ErrorAs(t, err, &subErr)

	submits, polls := backend.counts()
	assert.Equal(t, 0, submits, "validation failure must not reach the network")
	assert.Equal(t, 0, polls)

	_, ok := tracker.Snapshot()
	assert.False(t, ok, "snapshot must stay empty after a rejected submission")
}

func TestSubmitYieldsPendingSnapshot(t *testing.T) {
	backend := &fakeBackend{
		submitJob: job("j1", models.JobStatusPending, 0),
		polls:     []pollResult{{job: job("j1", models.JobStatusCompleted, 100)}},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))
	defer tracker.Discard()

	jobID, err := tracker.Submit(context.Background(), models.NewStockRequest("TCS"))
	require.NoError(t, err)
	assert.Equal(t, "j1", jobID)

	snapshot, ok := tracker.Snapshot()
	require.True(t, ok)
	assert.Equal(t, models.JobStatusPending, snapshot.Status)
	assert.Equal(t, 0, snapshot.Progress)
}

func TestPollingStopsAtTerminalState(t *testing.T) {
	backend := &fakeBackend{
		submitJob: job("j1", models.JobStatusPending, 0),
		polls: []pollResult{
			{job: job("j1", models.JobStatusProcessing, 40)},
			{job: &models.Job{ID: "j1", Status: models.JobStatusCompleted, Progress: 100, DownloadURL: "/api/download/j1"}},
		},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))

	_, err := tracker.Submit(context.Background(), models.NewStockRequest("TCS"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	final, err := tracker.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, final.Status)
	assert.True(t, final.Downloadable())

	_, pollsAtTerminal := backend.counts()

	// The timer must be cancelled: several more intervals, zero more polls.
	time.Sleep(5 * testInterval)
	_, pollsAfter := backend.counts()
	assert.Equal(t, pollsAtTerminal, pollsAfter, "no polls may be issued after a terminal status")
}

func TestPollFailureRetainsSnapshot(t *testing.T) {
	backend := &fakeBackend{
		submitJob: job("j1", models.JobStatusPending, 0),
		polls: []pollResult{
			{job: job("j1", models.JobStatusProcessing, 40)},
			{err: context.DeadlineExceeded},
			{job: job("j1", models.JobStatusCompleted, 100)},
		},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))

	_, err := tracker.Submit(context.Background(), models.NewStockRequest("TCS"))
	require.NoError(t, err)

	// After the first poll the snapshot is running/40. The second poll fails;
	// the snapshot must stay at 40 until the third poll completes the job.
	require.Eventually(t, func() bool {
		snapshot, ok := tracker.Snapshot()
		return ok && snapshot.Progress == 40
	}, time.Second, time.Millisecond)

	snapshot, ok := tracker.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 40, snapshot.Progress)
	assert.Equal(t, models.JobStatusRunning, snapshot.DisplayStatus())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	final, err := tracker.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, final.Status)
}

func TestProgressNeverDecreasesWhileActive(t *testing.T) {
	backend := &fakeBackend{
		submitJob: job("j1", models.JobStatusPending, 0),
		polls: []pollResult{
			{job: job("j1", models.JobStatusProcessing, 10)},
			{job: job("j1", models.JobStatusProcessing, 25)},
			{job: job("j1", models.JobStatusProcessing, 55)},
			{job: job("j1", models.JobStatusProcessing, 90)},
			{job: job("j1", models.JobStatusCompleted, 100)},
		},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))

	_, err := tracker.Submit(context.Background(), models.NewStockRequest("TCS"))
	require.NoError(t, err)

	last := -1
	deadline := time.After(2 * time.Second)
	for {
		snapshot, ok := tracker.Snapshot()
		if ok {
			require.GreaterOrEqual(t, snapshot.Progress, last, "progress regressed")
			last = snapshot.Progress
			if snapshot.Terminal() {
				break
			}
		}
		select {
		case <-deadline:
			t.Fatal("job never reached a terminal state")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDiscardStopsPolling(t *testing.T) {
	backend := &fakeBackend{
		submitJob: job("j1", models.JobStatusPending, 0),
		polls:     []pollResult{{job: job("j1", models.JobStatusProcessing, 10)}},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))

	_, err := tracker.Submit(context.Background(), models.NewStockRequest("TCS"))
	require.NoError(t, err)

	// Let at least one poll land, then discard.
	require.Eventually(t, func() bool {
		_, polls := backend.counts()
		return polls > 0
	}, time.Second, time.Millisecond)

	tracker.Discard()
	_, ok := tracker.Snapshot()
	assert.False(t, ok)

	_, pollsAtDiscard := backend.counts()
	time.Sleep(5 * testInterval)
	_, pollsAfter := backend.counts()
	assert.Equal(t, pollsAtDiscard, pollsAfter, "discard must cancel the poll timer")
}

func TestNewSubmissionAbandonsPreviousJob(t *testing.T) {
	backend := &fakeBackend{
		submitJob: job("j1", models.JobStatusPending, 0),
		polls:     []pollResult{{job: job("j1", models.JobStatusProcessing, 10)}},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))
	defer tracker.Discard()

	_, err := tracker.Submit(context.Background(), models.NewStockRequest("TCS"))
	require.NoError(t, err)

	backend.mu.Lock()
	backend.submitJob = job("j2", models.JobStatusPending, 0)
	backend.mu.Unlock()

	jobID, err := tracker.Submit(context.Background(), models.NewStockRequest("INFY"))
	require.NoError(t, err)
	assert.Equal(t, "j2", jobID)

	snapshot, ok := tracker.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "j2", snapshot.ID, "previous snapshot must be discarded")
}

func TestTrackTerminalJobDoesNotPoll(t *testing.T) {
	backend := &fakeBackend{
		polls: []pollResult{{job: job("j9", models.JobStatusCompleted, 100)}},
	}
	tracker := services.NewTracker(backend, services.WithPollInterval(testInterval))

	tracked, err := tracker.Track(context.Background(), "j9")
	require.NoError(t, err)
	assert.True(t, tracked.Terminal())

	_, pollsAtAttach := backend.counts()
	time.Sleep(5 * testInterval)
	_, pollsAfter := backend.counts()
	assert.Equal(t, pollsAtAttach, pollsAfter)

	// Wait returns immediately for an already-terminal job.
	final, err := tracker.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, final.Status)
}
