package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/server/middleware"
)

// ProfileService reads and saves the breeder profile.
type ProfileService interface {
	Get(ctx context.Context, userID, email string) (models.Breeder, error)
	Save(ctx context.Context, userID, email string, in models.ProfileInput) (models.Breeder, error)
}

// DashboardService computes the home screen counters.
type DashboardService interface {
	Stats(ctx context.Context, userID string) (models.DashboardStats, error)
}

// AccountHandler serves /profile and /dashboard.
type AccountHandler struct {
	profiles  ProfileService
	dashboard DashboardService
	logger    *zap.Logger
}

// NewAccountHandler constructs the account handler.
func NewAccountHandler(profiles ProfileService, dashboard DashboardService, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{profiles: profiles, dashboard: dashboard, logger: logger}
}

// Register mounts the account routes on g.
func (h *AccountHandler) Register(g *gin.RouterGroup) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.SaveProfile)
	g.GET("/dashboard", h.Dashboard)
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), middleware.UserID(c), middleware.Email(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AccountHandler) SaveProfile(c *gin.Context) {
	var in models.ProfileInput
	if !bind(c, h.logger, &in) {
		return
	}
	p, err := h.profiles.Save(c.Request.Context(), middleware.UserID(c), middleware.Email(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AccountHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
