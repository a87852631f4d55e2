package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/lineage"
	"github.com/mamadbah2/birdo/internal/server/middleware"
)

// BirdService is the registry behaviour exposed over HTTP.
type BirdService interface {
	List(ctx context.Context, userID, query string) ([]models.Bird, error)
	Get(ctx context.Context, userID, id string) (models.Bird, error)
	Create(ctx context.Context, userID string, in models.BirdInput) (models.Bird, error)
	Update(ctx context.Context, userID, id string, in models.BirdInput) (models.Bird, error)
	Delete(ctx context.Context, userID, id string) error
	SetStatus(ctx context.Context, userID, id string, status models.BirdStatus) error
	SetParent(ctx context.Context, userID, id string, role models.ParentRole, parentID string) error
	ClearParent(ctx context.Context, userID, id string, role models.ParentRole) error
	Candidates(ctx context.Context, userID, excludeID string, role models.ParentRole, query string) ([]models.Bird, error)
	AddLog(ctx context.Context, userID, birdID string, in models.LogInput) (models.BirdLog, error)
	UpdateLog(ctx context.Context, userID, birdID, logID string, in models.LogInput) (models.BirdLog, error)
	DeleteLog(ctx context.Context, userID, birdID, logID string) error
	AddWeight(ctx context.Context, userID, birdID string, in models.WeightInput) (models.BirdWeight, error)
	UpdateWeight(ctx context.Context, userID, birdID, weightID string, in models.WeightInput) (models.BirdWeight, error)
	DeleteWeight(ctx context.Context, userID, birdID, weightID string) error
}

// BirdHandler serves /birds.
type BirdHandler struct {
	svc    BirdService
	logger *zap.Logger
}

// NewBirdHandler constructs the bird handler.
func NewBirdHandler(svc BirdService, logger *zap.Logger) *BirdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BirdHandler{svc: svc, logger: logger}
}

// Register mounts the bird routes on g.
func (h *BirdHandler) Register(g *gin.RouterGroup) {
	g.GET("/birds", h.List)
	g.POST("/birds", h.Create)
	g.GET("/birds/:id", h.Get)
	g.PUT("/birds/:id", h.Update)
	g.DELETE("/birds/:id", h.Delete)
	g.PATCH("/birds/:id/status", h.SetStatus)
	g.PUT("/birds/:id/parents/:role", h.SetParent)
	g.DELETE("/birds/:id/parents/:role", h.ClearParent)
	g.GET("/birds/:id/candidates", h.Candidates)
	g.POST("/birds/:id/logs", h.AddLog)
	g.PUT("/birds/:id/logs/:logId", h.UpdateLog)
	g.DELETE("/birds/:id/logs/:logId", h.DeleteLog)
	g.POST("/birds/:id/weights", h.AddWeight)
	g.PUT("/birds/:id/weights/:weightId", h.UpdateWeight)
	g.DELETE("/birds/:id/weights/:weightId", h.DeleteWeight)
}

func (h *BirdHandler) List(c *gin.Context) {
	birds, err := h.svc.List(c.Request.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, birds)
}

func (h *BirdHandler) Get(c *gin.Context) {
	bird, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bird)
}

func (h *BirdHandler) Create(c *gin.Context) {
	var in models.BirdInput
	if !bind(c, h.logger, &in) {
		return
	}
	bird, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, bird)
}

func (h *BirdHandler) Update(c *gin.Context) {
	var in models.BirdInput
	if !bind(c, h.logger, &in) {
		return
	}
	bird, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bird)
}

func (h *BirdHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BirdHandler) SetStatus(c *gin.Context) {
	var in models.BirdStatusInput
	if !bind(c, h.logger, &in) {
		return
	}
	if err := h.svc.SetStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), in.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BirdHandler) SetParent(c *gin.Context) {
	role, err := lineage.ParseRole(c.Param("role"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var in models.ParentInput
	if !bind(c, h.logger, &in) {
		return
	}
	if err := h.svc.SetParent(c.Request.Context(), middleware.UserID(c), c.Param("id"), role, in.ParentID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BirdHandler) ClearParent(c *gin.Context) {
	role, err := lineage.ParseRole(c.Param("role"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.ClearParent(c.Request.Context(), middleware.UserID(c), c.Param("id"), role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Candidates lists the birds eligible as father or mother of :id.
func (h *BirdHandler) Candidates(c *gin.Context) {
	role, err := lineage.ParseRole(c.Query("role"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	birds, err := h.svc.Candidates(c.Request.Context(), middleware.UserID(c), c.Param("id"), role, c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, birds)
}

func (h *BirdHandler) AddLog(c *gin.Context) {
	var in models.LogInput
	if !bind(c, h.logger, &in) {
		return
	}
	entry, err := h.svc.AddLog(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *BirdHandler) UpdateLog(c *gin.Context) {
	var in models.LogInput
	if !bind(c, h.logger, &in) {
		return
	}
	entry, err := h.svc.UpdateLog(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("logId"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *BirdHandler) DeleteLog(c *gin.Context) {
	if err := h.svc.DeleteLog(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("logId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BirdHandler) AddWeight(c *gin.Context) {
	var in models.WeightInput
	if !bind(c, h.logger, &in) {
		return
	}
	w, err := h.svc.AddWeight(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *BirdHandler) UpdateWeight(c *gin.Context) {
	var in models.WeightInput
	if !bind(c, h.logger, &in) {
		return
	}
	w, err := h.svc.UpdateWeight(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("weightId"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *BirdHandler) DeleteWeight(c *gin.Context) {
	if err := h.svc.DeleteWeight(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("weightId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
