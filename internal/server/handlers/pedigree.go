package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/lineage"
	"github.com/mamadbah2/birdo/internal/server/middleware"
	"github.com/mamadbah2/birdo/internal/service/pedigree"
)

// PedigreeService builds and renders ancestry documents.
type PedigreeService interface {
	Tree(ctx context.Context, userID, birdID string) (lineage.Tree, error)
	PDF(ctx context.Context, userID, birdID, background string) (pedigree.Document, error)
	SVG(ctx context.Context, userID, birdID string) (pedigree.Document, error)
}

// PedigreeHandler serves /birds/:id/pedigree*.
type PedigreeHandler struct {
	svc    PedigreeService
	logger *zap.Logger
}

// NewPedigreeHandler constructs the pedigree handler.
func NewPedigreeHandler(svc PedigreeService, logger *zap.Logger) *PedigreeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PedigreeHandler{svc: svc, logger: logger}
}

// Register mounts the pedigree routes on g.
func (h *PedigreeHandler) Register(g *gin.RouterGroup) {
	g.GET("/birds/:id/pedigree", h.Tree)
	g.GET("/birds/:id/pedigree.pdf", h.PDF)
	g.GET("/birds/:id/pedigree.svg", h.SVG)
}

func (h *PedigreeHandler) Tree(c *gin.Context) {
	tree, err := h.svc.Tree(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// PDF downloads the printable card. ?bg= selects the background colour.
func (h *PedigreeHandler) PDF(c *gin.Context) {
	doc, err := h.svc.PDF(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Query("bg"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.serve(c, doc, "attachment")
}

func (h *PedigreeHandler) SVG(c *gin.Context) {
	doc, err := h.svc.SVG(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.serve(c, doc, "inline")
}

func (h *PedigreeHandler) serve(c *gin.Context, doc pedigree.Document, disposition string) {
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
