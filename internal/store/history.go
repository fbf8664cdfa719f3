package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"finmodel/internal/models"
)

// Submission is one locally recorded generation request. The backend owns
// job state; this is the client-side audit trail used by `history --local`.
type Submission struct {
	ID        string
	JobID     string
	Subject   string
	Source    string
	Status    string
	Filename  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryStore persists submissions in a local sqlite database.
type HistoryStore struct {
	db *sql.DB
}

// OpenHistory opens (and migrates) the submission history database.
func OpenHistory(dbPath string) (*HistoryStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	s := &HistoryStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *HistoryStore) Close() error { return s.db.Close() }

func (s *HistoryStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS submissions (
		id         TEXT PRIMARY KEY,
		job_id     TEXT NOT NULL,
		subject    TEXT NOT NULL,
		source     TEXT NOT NULL,          -- stock|raw|lbo|ma|upload
		status     TEXT NOT NULL,
		filename   TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_submissions_job ON submissions(job_id);
		CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate history db: %w", err)
	}
	return nil
}

// RecordSubmission inserts a pending record for a freshly submitted job.
func (s *HistoryStore) RecordSubmission(ctx context.Context, jobID, subject, source string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO submissions (id, job_id, subject, source, status, filename, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), jobID, subject, source, models.JobStatusPending, "", now, now)
	if err != nil {
		return fmt.Errorf("record submission for job %s: %w", jobID, err)
	}
	return nil
}

// MarkTerminal stamps the final status (and artifact filename, if any) on a
// submission once its job completes or fails.
func (s *HistoryStore) MarkTerminal(ctx context.Context, jobID, status, filename string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE submissions SET status = ?, filename = ?, updated_at = ? WHERE job_id = ?`,
		status, filename, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("update submission for job %s: %w", jobID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission for job %s: %w", jobID, models.ErrNotFound)
	}
	return nil
}

// Recent returns the newest submissions, most recent first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, job_id, subject, source, status, filename, created_at, updated_at
FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var filename sql.NullString
		if err := rows.Scan(&sub.ID, &sub.JobID, &sub.Subject, &sub.Source, &sub.Status, &filename, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if filename.Valid {
			sub.Filename = filename.String
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
