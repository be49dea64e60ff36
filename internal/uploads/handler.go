package uploads

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cv-contacts/internal/extract"
	"cv-contacts/internal/shared/server/middleware"
	"cv-contacts/internal/shared/server/respond"
	"cv-contacts/internal/shared/telemetry"
	"cv-contacts/internal/shared/util"
)

const (
	maxUploadBytes       = 5 << 20
	presignExpires       = 15 * time.Minute
	defaultRegion        = "us-east-1"
	defaultUploadsPrefix = "documents/"
	anonymousOwner       = "anonymous"
)

// ErrNotConfigured is returned when no uploads bucket is set.
var ErrNotConfigured = errors.New("uploads bucket not configured")

var allowedContentTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOCX: {},
}

// Handler issues presigned S3 PUT URLs for direct document uploads.
type Handler struct {
	presign presignFunc
	bucket  string
	prefix  string
}

// presignFunc matches (*s3.PresignClient).PresignPutObject.
type presignFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (string, error)

// NewHandler builds a handler for bucket. An empty bucket returns ErrNotConfigured.
func NewHandler(ctx context.Context, region, bucket, prefix string) (*Handler, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, ErrNotConfigured
	}
	region = strings.TrimSpace(region)
	if region == "" {
		region = defaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return newHandler(s3.NewPresignClient(s3.NewFromConfig(cfg)), bucket, prefix), nil
}

func newHandler(client *s3.PresignClient, bucket, prefix string) *Handler {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultUploadsPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Handler{
		presign: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (string, error) {
			out, err := client.PresignPutObject(ctx, params, optFns...)
			if err != nil {
				return "", err
			}
			return out.URL, nil
		},
		bucket: bucket,
		prefix: prefix,
	}
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	S3Key            string `json:"s3Key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// RegisterRoutes attaches the presign route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presignUpload)
}

func (h *Handler) presignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only PDF and DOCX documents are supported", nil)
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "sizeBytes exceeds limit", nil)
		return
	}

	sanitized, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid fileName", nil)
		return
	}

	owner := middleware.SessionIDFromContext(c)
	if owner == "" {
		owner = anonymousOwner
	}
	key := path.Join(h.prefix, util.HashOwnerKey(owner), uuid.NewString(), sanitized)

	url, err := h.presign(c.Request.Context(), presignInput(h.bucket, key), func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"error":        err.Error(),
			"bucket":       h.bucket,
			"key":          key,
			"content_type": req.ContentType,
			"size_bytes":   req.SizeBytes,
			"request_id":   middleware.RequestIDFromContext(c),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		return
	}

	respond.OK(c, presignResponse{
		UploadURL:        url,
		S3Key:            key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}

func presignInput(bucket, key string) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
}
