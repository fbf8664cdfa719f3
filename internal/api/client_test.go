package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmodel/internal/api"
	"finmodel/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := api.NewClient(server.URL, 5*time.Second)
	require.NoError(t, err)
	return client
}

func TestSubmitGenerationStockBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"job_id":  "abc-123",
			"status":  "pending",
			"message": "Model generation started",
		})
	}))

	job, err := client.SubmitGeneration(context.Background(), models.NewStockRequest("tcs"))
	require.NoError(t, err)

	assert.Equal(t, "/api/model/generate", gotPath)
	assert.Equal(t, map[string]interface{}{
		"symbol":         "TCS",
		"exchange":       "NSE",
		"forecast_years": float64(5),
		"model_types":    []interface{}{"three_statement", "dcf"},
	}, gotBody)

	assert.Equal(t, "abc-123", job.ID)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Progress)
}

func TestSubmitGenerationBackendDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Company UNKNOWN not found"})
	}))

	_, err := client.SubmitGeneration(context.Background(), models.NewStockRequest("UNKNOWN"))
	require.Error(t, err)

	var subErr *models.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Company UNKNOWN not found", subErr.Message)
}

func TestGetJobDecodesSnapshot(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/job/abc-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"job_id":       "abc-123",
			"status":       "completed",
			"progress":     100,
			"message":      "Done",
			"company_name": "Tata Consultancy Services",
			"industry":     "technology",
			"download_url": "/api/download/abc-123",
			"validation": map[string]interface{}{
				"is_valid": false,
				"errors": []map[string]string{
					{"sheet": "DCF", "message": "terminal growth exceeds discount rate"},
				},
			},
		})
	}))

	job, err := client.GetJob(context.Background(), "abc-123")
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, "Tata Consultancy Services", job.CompanyName)
	assert.True(t, job.Downloadable())
	require.NotNil(t, job.Validation)
	assert.False(t, job.Validation.IsValid)
	require.Len(t, job.Validation.Errors, 1)
	assert.Equal(t, "DCF", job.Validation.Errors[0].Sheet)
}

func TestGetJobNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Job not found"})
	}))

	_, err := client.GetJob(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDownloadUsesContentDisposition(t *testing.T) {
	payload := []byte("workbook-bytes")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download/abc-123", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="TCS_model.xlsx"`)
		_, _ = w.Write(payload)
	}))

	data, filename, err := client.Download(context.Background(), "/api/download/abc-123")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "TCS_model.xlsx", filename)
}

func TestDownloadErrorStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, _, err := client.Download(context.Background(), "/api/download/abc-123")
	require.Error(t, err)

	var dlErr *models.DownloadError
	assert.ErrorAs(t, err, &dlErr)
}

func TestSubmitGenerationUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("fake-xlsx"), 0644))

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/model/upload-excel", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "model.xlsx", header.Filename)
		assert.Equal(t, "Acme Ltd", r.FormValue("company_name"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"job_id": "up-1",
			"status": "pending",
		})
	}))

	req := models.UploadRequest{FilePath: path, CompanyName: "Acme Ltd"}
	job, err := client.SubmitGeneration(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "up-1", job.ID)
}

func TestListStocksAndSectors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stocks":
			assert.Equal(t, "banking", r.URL.Query().Get("sector"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"count": 1,
				"stocks": []map[string]string{
					{"symbol": "HDFCBANK", "name": "HDFC Bank", "sector": "banking"},
				},
			})
		case "/api/sectors":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"sectors": []string{"banking", "technology"},
				"count":   2,
			})
		default:
			http.NotFound(w, r)
		}
	}))

	stocks, err := client.ListStocks(context.Background(), "banking")
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "HDFCBANK", stocks[0].Symbol)

	sectors, err := client.ListSectors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"banking", "technology"}, sectors)
}

func TestCompare(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/compare", r.URL.Path)
		var body api.CompareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"TCS", "INFY"}, body.Symbols)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"companies": []map[string]interface{}{
				{"symbol": "TCS", "name": "TCS", "pe": 28.4},
				{"symbol": "INFY", "name": "Infosys", "pe": 24.1},
			},
		})
	}))

	result, err := client.Compare(context.Background(), api.CompareRequest{Symbols: []string{"TCS", "INFY"}, Exchange: "NSE"})
	require.NoError(t, err)
	require.Len(t, result.Companies, 2)
	assert.Equal(t, "TCS", result.Companies[0]["symbol"])
}
