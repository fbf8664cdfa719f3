package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"finmodel/internal/models"
)

// Client issues requests to the model generation backend.
type Client struct {
	BaseURL   *url.URL
	HTTP      *http.Client
	UserAgent string
}

// NewClient constructs a backend client for the given origin.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:   parsed,
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: "finmodel-cli/" + Version,
	}, nil
}

// Version is set at build time via -ldflags.
var Version = "dev"

// SubmitGeneration posts a request variant and returns the initial job
// snapshot (pending, progress 0). Validation of the variant is the caller's
// responsibility; any non-2xx response becomes a SubmissionError.
func (c *Client) SubmitGeneration(ctx context.Context, req models.GenerationRequest) (*models.Job, error) {
	if upload, ok := req.(models.UploadRequest); ok {
		return c.uploadExcel(ctx, upload)
	}

	var resp submitResponse
	httpResp, err := c.doJSON(ctx, http.MethodPost, req.Endpoint(), req, &resp)
	if err != nil {
		return nil, &models.SubmissionError{Message: "backend request failed", Err: err}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &models.SubmissionError{Message: backendDetail(httpResp)}
	}
	return resp.job(), nil
}

// submitResponse is the backend's ModelResponse shape.
type submitResponse struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

func (r submitResponse) job() *models.Job {
	return &models.Job{
		ID:          r.JobID,
		Status:      r.Status,
		Message:     r.Message,
		CompanyName: r.CompanyName,
		Industry:    r.Industry,
		DownloadURL: r.DownloadURL,
		Progress:    0,
	}
}

func (c *Client) uploadExcel(ctx context.Context, req models.UploadRequest) (*models.Job, error) {
	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, &models.SubmissionError{Message: "cannot open upload file", Err: err}
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(req.FilePath))
	if err != nil {
		return nil, &models.SubmissionError{Message: "build multipart form", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &models.SubmissionError{Message: "read upload file", Err: err}
	}
	if req.CompanyName != "" {
		_ = writer.WriteField("company_name", req.CompanyName)
	}
	if req.ModelType != "" {
		_ = writer.WriteField("model_type", req.ModelType)
	}
	if err := writer.Close(); err != nil {
		return nil, &models.SubmissionError{Message: "finalize multipart form", Err: err}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, req.Endpoint(), &body)
	if err != nil {
		return nil, &models.SubmissionError{Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, &models.SubmissionError{Message: "backend request failed", Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &models.SubmissionError{Message: backendDetail(httpResp)}
	}
	var resp submitResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &models.SubmissionError{Message: "decode response", Err: err}
	}
	return resp.job(), nil
}

// Health checks backend connectivity.
func (c *Client) Health(ctx context.Context) error {
	var response struct {
		Status string `json:"status"`
	}
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &response)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend unhealthy: %s", resp.Status)
	}
	return nil
}

// GetJob fetches the current snapshot for a job.
func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/job/"+url.PathEscape(id), nil, &job)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("job %s: %w", id, models.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job status check failed: %s", resp.Status)
	}
	if job.ID == "" {
		job.ID = id
	}
	return &job, nil
}

// JobHistory fetches the backend's recent job records.
func (c *Client) JobHistory(ctx context.Context, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	var response struct {
		Jobs []models.Job `json:"jobs"`
	}
	path := fmt.Sprintf("/api/jobs/history?limit=%d", limit)
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil, &response)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job history failed: %s", resp.Status)
	}
	return response.Jobs, nil
}

// Stock is one entry in the backend's stock universe.
type Stock struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// ListStocks returns the stock universe, optionally filtered by sector.
func (c *Client) ListStocks(ctx context.Context, sector string) ([]Stock, error) {
	path := "/api/stocks"
	if sector != "" {
		path += "?sector=" + url.QueryEscape(sector)
	}
	var response struct {
		Count  int     `json:"count"`
		Stocks []Stock `json:"stocks"`
	}
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil, &response)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list stocks failed: %s", resp.Status)
	}
	return response.Stocks, nil
}

// SearchStocks searches the universe by symbol or name.
func (c *Client) SearchStocks(ctx context.Context, query string) ([]Stock, error) {
	var response struct {
		Count   int     `json:"count"`
		Results []Stock `json:"results"`
	}
	path := "/api/stocks/search/" + url.PathEscape(query)
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil, &response)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock search failed: %s", resp.Status)
	}
	return response.Results, nil
}

// ListSectors returns the available sectors.
func (c *Client) ListSectors(ctx context.Context) ([]string, error) {
	var response struct {
		Sectors []string `json:"sectors"`
		Count   int      `json:"count"`
	}
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/sectors", nil, &response)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list sectors failed: %s", resp.Status)
	}
	return response.Sectors, nil
}

// ExportFormat describes one artifact export option.
type ExportFormat struct {
	Format    string `json:"format"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ExportFormats returns the export options the backend currently supports.
func (c *Client) ExportFormats(ctx context.Context) ([]ExportFormat, error) {
	var response struct {
		Formats []ExportFormat `json:"formats"`
	}
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/export/formats", nil, &response)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export formats failed: %s", resp.Status)
	}
	return response.Formats, nil
}

// Export fetches a rendered report (pdf or pptx) for a completed job.
// Returns the artifact bytes and the server-suggested filename.
func (c *Client) Export(ctx context.Context, jobID, format string) ([]byte, string, error) {
	path := fmt.Sprintf("/api/export/%s/%s", url.PathEscape(jobID), url.PathEscape(format))
	return c.fetchBinary(ctx, path)
}

// CompareRequest asks the backend for a side-by-side metric comparison.
type CompareRequest struct {
	Symbols  []string `json:"symbols"`
	Exchange string   `json:"exchange,omitempty"`
}

// CompareResult carries per-company metric rows; the metric set is
// backend-defined so values stay loosely typed.
type CompareResult struct {
	Companies []map[string]interface{} `json:"companies"`
}

// Compare posts a comparison request for a set of symbols.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*CompareResult, error) {
	var result CompareResult
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/compare", req, &result)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("compare failed: %s", backendDetail(resp))
	}
	return &result, nil
}

// Download fetches the artifact behind a job's download URL. Returns the
// bytes and the filename suggested by Content-Disposition, if any.
func (c *Client) Download(ctx context.Context, downloadURL string) ([]byte, string, error) {
	return c.fetchBinary(ctx, downloadURL)
}

func (c *Client) fetchBinary(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", &models.DownloadError{URL: path, Err: err}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", &models.DownloadError{URL: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &models.DownloadError{URL: path, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &models.DownloadError{URL: path, Err: err}
	}
	return data, suggestedFilename(resp), nil
}

func suggestedFilename(resp *http.Response) string {
	cd := resp.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	requestURL := c.BaseURL.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	return req, nil
}

// doJSON issues one JSON request and decodes the body into out when the
// response carries a JSON payload. The *http.Response is returned for status
// inspection; its body is already consumed.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) (*http.Response, error) {
	var reader io.Reader
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("read response: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

// backendDetail extracts FastAPI's {"detail": ...} error message, falling back
// to the HTTP status line.
func backendDetail(resp *http.Response) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if resp.Body != nil {
		raw, err := io.ReadAll(resp.Body)
		if err == nil && len(raw) > 0 {
			if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
				return payload.Detail
			}
		}
	}
	return resp.Status
}
