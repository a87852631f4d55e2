// Package finance keeps the breeder's income and expense ledger.
package finance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
)

const monthLayout = "2006-01"

// Store is the persistence the service needs.
type Store interface {
	ListTransactions(ctx context.Context, userID string, f mongodb.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (models.Transaction, error)
	InsertTransaction(ctx context.Context, tx models.Transaction) error
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
}

// Sheet is the spreadsheet the ledger is exported to.
type Sheet interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// Service implements the ledger operations.
type Service struct {
	store      Store
	sheet      Sheet
	sheetRange string
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewService constructs a finance service. sheet may be nil, in which case
// Export reports models.ErrFeatureDisabled.
func NewService(store Store, sheet Sheet, sheetRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		sheet:      sheet,
		sheetRange: sheetRange,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// List returns the user's transactions, most recent first. month narrows the
// listing to one YYYY-MM month when not empty.
func (s *Service) List(ctx context.Context, userID, month string) ([]models.Transaction, error) {
	filter, err := MonthFilter(month)
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, userID, filter)
}

// Get loads one transaction.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// Create validates and stores a transaction.
func (s *Service) Create(ctx context.Context, userID string, in models.TransactionInput) (models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return models.Transaction{}, err
	}
	tx := fromInput(in)
	tx.ID = s.newID()
	tx.UserID = userID
	tx.CreatedAt = s.now().UTC()

	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Update replaces the editable fields of a transaction.
func (s *Service) Update(ctx context.Context, userID, id string, in models.TransactionInput) (models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return models.Transaction{}, err
	}
	current, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return models.Transaction{}, err
	}
	tx := fromInput(in)
	tx.ID = current.ID
	tx.UserID = userID
	tx.CreatedAt = current.CreatedAt

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Delete removes a transaction.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteTransaction(ctx, userID, id)
}

// Summary balances the transactions of one YYYY-MM month, or of all time
// when month is empty.
func (s *Service) Summary(ctx context.Context, userID, month string) (models.FinanceSummary, error) {
	txs, err := s.List(ctx, userID, month)
	if err != nil {
		return models.FinanceSummary{}, err
	}
	summary := Summarize(txs)
	summary.Period = month
	return summary, nil
}

// Export appends every transaction not yet present in the spreadsheet and
// returns how many rows were written. Rows are matched on the id column.
func (s *Service) Export(ctx context.Context, userID string) (int, error) {
	if s.sheet == nil {
		return 0, fmt.Errorf("ledger export: %w", models.ErrFeatureDisabled)
	}

	txs, err := s.store.ListTransactions(ctx, userID, mongodb.TransactionFilter{})
	if err != nil {
		return 0, err
	}

	existing, err := s.sheet.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return 0, fmt.Errorf("read exported ledger: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		if len(row) > 0 {
			seen[fmt.Sprint(row[0])] = struct{}{}
		}
	}

	var rows [][]interface{}
	// oldest first so the sheet reads chronologically
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		rows = append(rows, Row(tx))
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n := len(rows)
	if len(existing) == 0 {
		rows = append([][]interface{}{Header}, rows...)
	}

	if err := s.sheet.AppendRows(ctx, s.sheetRange, rows); err != nil {
		return 0, fmt.Errorf("export ledger: %w", err)
	}
	s.logger.Info("ledger exported", zap.String("user_id", userID), zap.Int("rows", n))
	return n, nil
}

// Header is written above the first exported row of an empty sheet.
var Header = []interface{}{"ID", "Date", "Type", "Category", "Description", "Amount", "User"}

// Row is the spreadsheet representation of a transaction.
func Row(tx models.Transaction) []interface{} {
	return []interface{}{tx.ID, tx.Date, string(tx.Type), tx.Category, tx.Description, tx.Amount, tx.UserID}
}

// Summarize totals income and expense. Percentages are shares of the total
// movement and are zero when nothing moved.
func Summarize(txs []models.Transaction) models.FinanceSummary {
	var sum models.FinanceSummary
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionIncome:
			sum.Income += tx.Amount
		case models.TransactionExpense:
			sum.Expense += tx.Amount
		}
	}
	sum.Balance = sum.Income - sum.Expense
	sum.Transactions = len(txs)
	if total := sum.Income + sum.Expense; total > 0 {
		sum.IncomePercent = round2(sum.Income / total * 100)
		sum.ExpensePercent = round2(sum.Expense / total * 100)
	}
	return sum
}

// MonthFilter converts a YYYY-MM month into an inclusive date range.
func MonthFilter(month string) (mongodb.TransactionFilter, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return mongodb.TransactionFilter{}, nil
	}
	start, err := time.Parse(monthLayout, month)
	if err != nil {
		return mongodb.TransactionFilter{}, models.Invalid("month", "expected YYYY-MM, got %q", month)
	}
	end := start.AddDate(0, 1, -1)
	return mongodb.TransactionFilter{From: start.Format(models.DateLayout), To: end.Format(models.DateLayout)}, nil
}

func fromInput(in models.TransactionInput) models.Transaction {
	return models.Transaction{
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    strings.TrimSpace(in.Category),
		Date:        in.Date,
		Description: in.Description,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
