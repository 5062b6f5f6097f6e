package uploads

import (
	"net/http"
	"time"

	"tradecareers_backend/internal/storage"
	"tradecareers_backend/platform/httpkit"
	"tradecareers_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type contentKind int

const (
	kindImage contentKind = iota
	kindDocument
)

// Handler exposes presigned upload endpoints. Clients PUT the file bytes to
// MinIO directly; the backend only ever sees the resulting object key.
type Handler struct {
	store storage.Service
	log   *logger.Logger
}

func NewHandler(store storage.Service, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// PresignCompanyLogo handles POST /api/v1/uploads/company-logo.
func (h *Handler) PresignCompanyLogo(bucket string) gin.HandlerFunc {
	return h.presign(bucket, func() string { return "logos" }, kindImage)
}

// PresignInstallerAvatar handles POST /api/v1/uploads/installer-avatar.
func (h *Handler) PresignInstallerAvatar(bucket string) gin.HandlerFunc {
	return h.presign(bucket, func() string { return "avatars" }, kindImage)
}

// PresignResume handles POST /api/v1/uploads/resume. Resumes are sharded by
// month so abandoned uploads can be cleaned up in bulk.
func (h *Handler) PresignResume(bucket string) gin.HandlerFunc {
	return h.presign(bucket, func() string { return time.Now().UTC().Format("2006/01") }, kindDocument)
}

func (h *Handler) presign(bucket string, folder func() string, kind contentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PresignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "fileName, contentType and sizeBytes are required", nil)
			return
		}

		var err error
		switch kind {
		case kindDocument:
			err = h.store.ValidateDocumentContentType(req.ContentType)
		default:
			err = h.store.ValidateImageContentType(req.ContentType)
		}
		if err != nil {
			httpkit.Error(c, http.StatusUnsupportedMediaType, err.Error(), nil)
			return
		}

		presigned, err := h.store.GenerateUploadURL(c.Request.Context(), bucket, folder(), req.FileName, req.ContentType, req.SizeBytes)
		if err != nil {
			if sizeErr := h.store.ValidateFileSize(req.SizeBytes); sizeErr != nil {
				httpkit.Error(c, http.StatusRequestEntityTooLarge, sizeErr.Error(), nil)
				return
			}
			h.log.Error("presign failed", "bucket", bucket, "error", err)
			httpkit.Error(c, http.StatusBadGateway, "storage service unavailable", nil)
			return
		}

		httpkit.OK(c, PresignResponse{
			URL:       presigned.URL,
			FileKey:   presigned.FileKey,
			ExpiresAt: presigned.ExpiresAt,
		})
	}
}
