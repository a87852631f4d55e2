package models

import "time"

// TransactionType separates income from expenses.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is an income or expense record. Amount is never negative; the
// sign comes from Type.
type Transaction struct {
	ID          string          `bson:"_id" json:"id"`
	UserID      string          `bson:"user_id" json:"-"`
	Type        TransactionType `bson:"type" json:"type"`
	Amount      float64         `bson:"amount" json:"amount"`
	Category    string          `bson:"category" json:"category"`
	Date        string          `bson:"date" json:"date"`
	Description string          `bson:"description" json:"description"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
}

// FinanceSummary is the balance of a set of transactions.
type FinanceSummary struct {
	Period         string  `json:"period,omitempty"`
	Income         float64 `json:"income"`
	Expense        float64 `json:"expense"`
	Balance        float64 `json:"balance"`
	IncomePercent  float64 `json:"incomePercent"`
	ExpensePercent float64 `json:"expensePercent"`
	Transactions   int     `json:"transactions"`
}
