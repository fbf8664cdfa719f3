// Package apihandlers exposes the job lifecycle over local HTTP, standing in
// for the original browser UI. One tracker (and so at most one tracked job)
// per server instance.
package apihandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"finmodel/internal/app"
	"finmodel/internal/models"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(appInstance *app.App) *APIHandler {
	return &APIHandler{App: appInstance}
}

// generateRequest is the bridge's submission envelope: a variant tag plus the
// variant payload, decoded into the matching typed request.
type generateRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// GenerateHandler submits a generation request and starts tracking it.
// POST /api/generate
func (h *APIHandler) GenerateHandler(c *gin.Context) {
	var envelope generateRequest
	if err := c.ShouldBindJSON(&envelope); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	req, err := decodeVariant(envelope)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	jobID, err := h.App.Tracker.Submit(c.Request.Context(), req)
	if err != nil {
		var subErr *models.SubmissionError
		if errors.As(err, &subErr) && subErr.Err == nil {
			BadRequest(c, subErr.Message)
			return
		}
		BadGateway(c, err.Error())
		return
	}

	snapshot, _ := h.App.Tracker.Snapshot()
	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "job": snapshot})
}

func decodeVariant(envelope generateRequest) (models.GenerationRequest, error) {
	payload := envelope.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	switch envelope.Type {
	case models.SourceStock:
		req := models.NewStockRequest("")
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("invalid stock payload: %w", err)
		}
		return req, nil
	case models.SourceRaw:
		req := models.NewRawDataRequest("")
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("invalid raw data payload: %w", err)
		}
		return req, nil
	case models.SourceLBO:
		var req models.LBORequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("invalid lbo payload: %w", err)
		}
		return req, nil
	case models.SourceMA:
		var req models.MARequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("invalid ma payload: %w", err)
		}
		return req, nil
	default:
		return nil, fmt.Errorf("unknown request type %q", envelope.Type)
	}
}

// JobHandler returns the current job snapshot.
// GET /api/job
func (h *APIHandler) JobHandler(c *gin.Context) {
	snapshot, ok := h.App.Tracker.Snapshot()
	if !ok {
		NotFound(c, "no job submitted")
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": snapshot})
}

// DiscardHandler abandons the tracked job. The backend keeps running it.
// POST /api/discard
func (h *APIHandler) DiscardHandler(c *gin.Context) {
	h.App.Tracker.Discard()
	c.Status(http.StatusNoContent)
}

// DownloadHandler saves the completed model locally and reports the path.
// POST /api/download
func (h *APIHandler) DownloadHandler(c *gin.Context) {
	snapshot, ok := h.App.Tracker.Snapshot()
	if !ok {
		NotFound(c, "no job submitted")
		return
	}
	path, err := h.App.Files.SaveModel(c.Request.Context(), snapshot)
	if err != nil {
		if errors.Is(err, models.ErrJobNotReady) {
			BadRequest(c, "model not ready for download")
			return
		}
		BadGateway(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "filename": snapshot.Filename})
}

// RegisterRoutes attaches the bridge's routes to a gin engine.
func RegisterRoutes(router *gin.Engine, handler *APIHandler) {
	api := router.Group("/api")
	{
		api.POST("/generate", handler.GenerateHandler)
		api.GET("/job", handler.JobHandler)
		api.POST("/discard", handler.DiscardHandler)
		api.POST("/download", handler.DownloadHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
