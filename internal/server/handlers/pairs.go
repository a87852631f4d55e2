package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/server/middleware"
)

// PairService is the breeding pair behaviour exposed over HTTP.
type PairService interface {
	List(ctx context.Context, userID string) ([]models.PairView, error)
	Get(ctx context.Context, userID, id string) (models.PairView, error)
	Create(ctx context.Context, userID string, in models.PairInput) (models.BreedingPair, error)
	Update(ctx context.Context, userID, id string, in models.PairInput) (models.BreedingPair, error)
	Delete(ctx context.Context, userID, id string) error
	SetStatus(ctx context.Context, userID, id string, status models.PairStatus) error
	Candidates(ctx context.Context, userID string, gender models.Gender, query string) ([]models.Bird, error)
	AddCycle(ctx context.Context, userID, pairID string, in models.CycleInput) (models.BreedingCycle, error)
	UpdateCycle(ctx context.Context, userID, pairID, cycleID string, in models.CycleInput) (models.BreedingCycle, error)
	DeleteCycle(ctx context.Context, userID, pairID, cycleID string) error
}

// PairHandler serves /pairs.
type PairHandler struct {
	svc    PairService
	logger *zap.Logger
}

// NewPairHandler constructs the pair handler.
func NewPairHandler(svc PairService, logger *zap.Logger) *PairHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PairHandler{svc: svc, logger: logger}
}

// Register mounts the pair routes on g.
func (h *PairHandler) Register(g *gin.RouterGroup) {
	g.GET("/pairs", h.List)
	g.POST("/pairs", h.Create)
	g.GET("/pairs/candidates", h.Candidates)
	g.GET("/pairs/:id", h.Get)
	g.PUT("/pairs/:id", h.Update)
	g.DELETE("/pairs/:id", h.Delete)
	g.PATCH("/pairs/:id/status", h.SetStatus)
	g.POST("/pairs/:id/cycles", h.AddCycle)
	g.PUT("/pairs/:id/cycles/:cycleId", h.UpdateCycle)
	g.DELETE("/pairs/:id/cycles/:cycleId", h.DeleteCycle)
}

func (h *PairHandler) List(c *gin.Context) {
	pairs, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

func (h *PairHandler) Get(c *gin.Context) {
	pair, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *PairHandler) Create(c *gin.Context) {
	var in models.PairInput
	if !bind(c, h.logger, &in) {
		return
	}
	pair, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

func (h *PairHandler) Update(c *gin.Context) {
	var in models.PairInput
	if !bind(c, h.logger, &in) {
		return
	}
	pair, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *PairHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PairHandler) SetStatus(c *gin.Context) {
	var in models.PairStatusInput
	if !bind(c, h.logger, &in) {
		return
	}
	if err := h.svc.SetStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), in.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Candidates lists the birds that may be picked as the male or female partner.
func (h *PairHandler) Candidates(c *gin.Context) {
	gender := models.Gender(strings.ToUpper(strings.TrimSpace(c.Query("gender"))))
	birds, err := h.svc.Candidates(c.Request.Context(), middleware.UserID(c), gender, c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, birds)
}

func (h *PairHandler) AddCycle(c *gin.Context) {
	var in models.CycleInput
	if !bind(c, h.logger, &in) {
		return
	}
	cycle, err := h.svc.AddCycle(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cycle)
}

func (h *PairHandler) UpdateCycle(c *gin.Context) {
	var in models.CycleInput
	if !bind(c, h.logger, &in) {
		return
	}
	cycle, err := h.svc.UpdateCycle(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("cycleId"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *PairHandler) DeleteCycle(c *gin.Context) {
	if err := h.svc.DeleteCycle(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("cycleId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
