package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/server/middleware"
	"github.com/mamadbah2/birdo/internal/service/uploads"
)

// UploadService stores photos.
type UploadService interface {
	Upload(ctx context.Context, userID, folder string, p uploads.Photo) (string, error)
}

// UploadHandler serves /uploads.
type UploadHandler struct {
	svc    UploadService
	logger *zap.Logger
}

// NewUploadHandler constructs the upload handler.
func NewUploadHandler(svc UploadService, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{svc: svc, logger: logger}
}

// Register mounts the upload routes on g.
func (h *UploadHandler) Register(g *gin.RouterGroup) {
	g.POST("/uploads/:folder", h.Upload)
}

// Upload stores the multipart field "file" and returns its public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	url, err := h.svc.Upload(c.Request.Context(), middleware.UserID(c), c.Param("folder"), uploads.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
