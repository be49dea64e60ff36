package batch

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-contacts/internal/extract"
	"cv-contacts/internal/queue"
	"cv-contacts/internal/shared/server/middleware"
	"cv-contacts/internal/shared/server/respond"
	"cv-contacts/internal/shared/storage/object"
	"cv-contacts/internal/shared/telemetry"
)

const (
	defaultMaxUploadBytes = 10 << 20
	multipartOverhead     = 1 << 20
	batchOwner            = "batch"
)

// Handler accepts documents for background contact extraction.
type Handler struct {
	Queue          queue.Client
	Store          object.ObjectStore
	MaxUploadBytes int64
	Now            func() time.Time
}

type jobRequest struct {
	DocumentKey string `json:"documentKey"`
	S3Key       string `json:"s3Key"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
	ContentType string `json:"contentType"`
}

type jobResponse struct {
	DocumentKey string `json:"documentKey"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	EnqueuedAt  string `json:"enqueuedAt"`
}

// RegisterRoutes attaches batch routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/batch/jobs", h.enqueueJob)
	rg.POST("/batch/documents", h.uploadDocument)
}

func (h *Handler) enqueueJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	key := strings.TrimSpace(req.DocumentKey)
	if key == "" {
		key = strings.TrimSpace(req.S3Key)
	}
	if key == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentKey is required", nil)
		return
	}
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = path.Base(key)
	}
	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		mimeType = strings.TrimSpace(req.ContentType)
	}

	h.enqueue(c, key, fileName, mimeType)
}

func (h *Handler) uploadDocument(c *gin.Context) {
	if h.Store == nil {
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "document storage is not configured", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes()+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > h.maxUploadBytes() {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
		return
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if extract.FileType(fileHeader.Filename, mimeType) == "" {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only PDF and DOCX documents are supported", nil)
		return
	}
	if h.Queue == nil {
		respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", "batch queue is not configured", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	key, _, _, err := h.Store.Save(c.Request.Context(), batchOwner, fileHeader.Filename, file)
	if err != nil {
		telemetry.Error("batch.document.save_failed", map[string]any{
			"error":      err.Error(),
			"file_name":  fileHeader.Filename,
			"request_id": middleware.RequestIDFromContext(c),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store document", nil)
		return
	}

	h.enqueue(c, key, fileHeader.Filename, mimeType)
}

func (h *Handler) enqueue(c *gin.Context, key, fileName, mimeType string) {
	fileType := extract.FileType(fileName, mimeType)
	if fileType == "" {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only PDF and DOCX documents are supported", nil)
		return
	}
	if h.Queue == nil {
		respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", "batch queue is not configured", nil)
		return
	}

	enqueuedAt := h.now().Format(time.RFC3339)
	requestID := middleware.RequestIDFromContext(c)
	msg := queue.Message{
		DocumentKey: key,
		FileName:    fileName,
		MimeType:    mimeType,
		RequestID:   requestID,
		EnqueuedAt:  enqueuedAt,
		Version:     queue.CurrentVersion,
	}
	if err := h.Queue.Send(c.Request.Context(), msg); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		telemetry.Error("batch.enqueue.failed", map[string]any{
			"error":        err.Error(),
			"document_key": key,
			"request_id":   requestID,
		})
		respond.Error(c, status, "queue_error", "failed to enqueue document", nil)
		return
	}

	telemetry.Info("batch.enqueued", map[string]any{
		"document_key": key,
		"file_type":    fileType,
		"request_id":   requestID,
	})
	c.Set(middleware.FileTypeKey, fileType)
	respond.JSON(c, http.StatusAccepted, jobResponse{
		DocumentKey: key,
		FileName:    fileName,
		FileType:    fileType,
		EnqueuedAt:  enqueuedAt,
	})
}

func (h *Handler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
