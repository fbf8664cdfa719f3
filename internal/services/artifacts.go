package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"finmodel/internal/api"
	"finmodel/internal/models"
)

// DefaultModelFilename is used when neither the job nor the server suggests
// an artifact name.
const DefaultModelFilename = "financial_model.xlsx"

// ArtifactFetcher is the client surface needed to materialize artifacts.
type ArtifactFetcher interface {
	Download(ctx context.Context, downloadURL string) ([]byte, string, error)
	Export(ctx context.Context, jobID, format string) ([]byte, string, error)
	ExportFormats(ctx context.Context) ([]api.ExportFormat, error)
}

// ArtifactService saves generated models and exported reports to disk.
type ArtifactService struct {
	backend   ArtifactFetcher
	outputDir string
}

// NewArtifactService creates an ArtifactService writing into outputDir.
func NewArtifactService(backend ArtifactFetcher, outputDir string) *ArtifactService {
	if outputDir == "" {
		outputDir = "."
	}
	return &ArtifactService{backend: backend, outputDir: outputDir}
}

// SaveModel fetches the Excel artifact for a completed job and writes it
// under the job's filename, the server-suggested name, or a default.
// Returns the saved path.
func (s *ArtifactService) SaveModel(ctx context.Context, job models.Job) (string, error) {
	if !job.Downloadable() {
		return "", models.ErrJobNotReady
	}

	data, suggested, err := s.backend.Download(ctx, job.DownloadURL)
	if err != nil {
		return "", err
	}

	name := job.Filename
	if name == "" {
		name = suggested
	}
	if name == "" {
		name = DefaultModelFilename
	}

	path, err := s.write(name, data)
	if err != nil {
		return "", &models.DownloadError{URL: job.DownloadURL, Err: err}
	}
	log.WithFields(log.Fields{"job_id": job.ID, "path": path}).Info("model saved")
	return path, nil
}

// SaveExport fetches a rendered report (pdf or pptx) for a completed job and
// writes it to disk. Returns the saved path.
func (s *ArtifactService) SaveExport(ctx context.Context, jobID, format string) (string, error) {
	if format != models.ExportFormatPDF && format != models.ExportFormatPPTX {
		return "", fmt.Errorf("unsupported export format %q", format)
	}

	data, suggested, err := s.backend.Export(ctx, jobID, format)
	if err != nil {
		return "", err
	}

	name := suggested
	if name == "" {
		name = jobID + "." + format
	}

	path, err := s.write(name, data)
	if err != nil {
		return "", &models.DownloadError{URL: "/api/export/" + jobID + "/" + format, Err: err}
	}
	return path, nil
}

// Formats returns the backend's export options.
func (s *ArtifactService) Formats(ctx context.Context) ([]api.ExportFormat, error) {
	return s.backend.ExportFormats(ctx)
}

func (s *ArtifactService) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	// Strip any path components a hostile server might suggest.
	path := filepath.Join(s.outputDir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}
