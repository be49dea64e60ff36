package exports

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cv-contacts/internal/export"
	"cv-contacts/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ledger routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/exports", h.list)
	rg.GET("/exports/workbook", h.workbook)
}

func (h *Handler) list(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list exports", nil)
		return
	}
	total, err := h.Svc.Count(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to count exports", nil)
		return
	}

	respond.OK(c, gin.H{
		"items":  entries,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) workbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Svc.Workbook(c.Request.Context(), &buf); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build workbook", nil)
		return
	}
	respond.Attachment(c, export.FileName, export.ContentType, buf.Bytes())
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
