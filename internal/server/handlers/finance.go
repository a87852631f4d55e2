package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/server/middleware"
)

// FinanceService is the ledger behaviour exposed over HTTP.
type FinanceService interface {
	List(ctx context.Context, userID, month string) ([]models.Transaction, error)
	Get(ctx context.Context, userID, id string) (models.Transaction, error)
	Create(ctx context.Context, userID string, in models.TransactionInput) (models.Transaction, error)
	Update(ctx context.Context, userID, id string, in models.TransactionInput) (models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID, month string) (models.FinanceSummary, error)
	Export(ctx context.Context, userID string) (int, error)
}

// FinanceHandler serves /transactions and /finance.
type FinanceHandler struct {
	svc    FinanceService
	logger *zap.Logger
}

// NewFinanceHandler constructs the finance handler.
func NewFinanceHandler(svc FinanceService, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, logger: logger}
}

// Register mounts the finance routes on g.
func (h *FinanceHandler) Register(g *gin.RouterGroup) {
	g.GET("/transactions", h.List)
	g.POST("/transactions", h.Create)
	g.GET("/transactions/:id", h.Get)
	g.PUT("/transactions/:id", h.Update)
	g.DELETE("/transactions/:id", h.Delete)
	g.GET("/finance/summary", h.Summary)
	g.POST("/finance/export", h.Export)
}

func (h *FinanceHandler) List(c *gin.Context) {
	txs, err := h.svc.List(c.Request.Context(), middleware.UserID(c), c.Query("month"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *FinanceHandler) Get(c *gin.Context) {
	tx, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *FinanceHandler) Create(c *gin.Context) {
	var in models.TransactionInput
	if !bind(c, h.logger, &in) {
		return
	}
	tx, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *FinanceHandler) Update(c *gin.Context) {
	var in models.TransactionInput
	if !bind(c, h.logger, &in) {
		return
	}
	tx, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *FinanceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary returns the balance of ?month=YYYY-MM, or of every transaction.
func (h *FinanceHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), middleware.UserID(c), c.Query("month"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export pushes new transactions to the spreadsheet ledger.
func (h *FinanceHandler) Export(c *gin.Context) {
	n, err := h.svc.Export(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": n})
}
