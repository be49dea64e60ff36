package scans

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-contacts/internal/contact"
	"cv-contacts/internal/export"
	"cv-contacts/internal/exports"
	"cv-contacts/internal/shared/server/middleware"
	"cv-contacts/internal/shared/server/respond"
)

const (
	// multipart framing allowance on top of the file limit
	multipartOverhead = 1 << 20
	maxExtractBody    = 2 << 20
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches scan routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extractText)

	scans := rg.Group("/scans", middleware.RequireSession())
	scans.POST("", h.upload)
	scans.GET("/current", h.current)
	scans.PUT("/current/contact", h.updateContact)
	scans.POST("/current/revert", h.revert)
	scans.DELETE("/current", h.reset)
	scans.GET("/current/export.xlsx", h.workbook)
	scans.GET("/current/clipboard", h.clipboard)
	scans.POST("/current/confirm", h.confirm)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.maxUploadBytes()+multipartOverhead)

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

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	scan, err := h.Svc.Upload(c.Request.Context(), sessionID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Set(middleware.ScanIDKey, scan.ID)
	c.Set(middleware.FileTypeKey, scan.FileType)
	respond.Created(c, toResponse(scan))
}

func (h *Handler) current(c *gin.Context) {
	scan, err := h.Svc.Current(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.ScanIDKey, scan.ID)
	respond.OK(c, toResponse(scan))
}

func (h *Handler) updateContact(c *gin.Context) {
	var rec contact.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	scan, err := h.Svc.UpdateContact(c.Request.Context(), middleware.SessionIDFromContext(c), rec)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.ScanIDKey, scan.ID)
	respond.OK(c, toResponse(scan))
}

func (h *Handler) revert(c *gin.Context) {
	scan, err := h.Svc.Revert(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.ScanIDKey, scan.ID)
	respond.OK(c, toResponse(scan))
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.Svc.Reset(c.Request.Context(), middleware.SessionIDFromContext(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) workbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Svc.Workbook(c.Request.Context(), middleware.SessionIDFromContext(c), &buf); err != nil {
		h.writeError(c, err)
		return
	}
	respond.Attachment(c, export.FileName, export.ContentType, buf.Bytes())
}

func (h *Handler) clipboard(c *gin.Context) {
	text, err := h.Svc.ClipboardText(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (h *Handler) confirm(c *gin.Context) {
	entry, err := h.Svc.Confirm(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.Created(c, entry)
}

func (h *Handler) extractText(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxExtractBody)

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	respond.OK(c, h.Svc.ExtractText(*req.Text))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "no document in this session", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only PDF and DOCX files are supported", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, exports.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnreadable):
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "the document could not be read", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
