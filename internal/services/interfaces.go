package services

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
)

// UserServicer is the credential store: it owns user records and password
// verification.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	VerifyCredentials(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, monthlyBudget decimal.Decimal) (*models.Category, error)
	GetUserCategories(userID string) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name *string, monthlyBudget *decimal.Decimal) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
// ToDate is inclusive.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, categoryID *string, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// CategoryTotal is one slice of the monthly expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlySummary totals income and expenses for one calendar month.
type MonthlySummary struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ReportServicer computes read-only aggregations over a user's transactions.
type ReportServicer interface {
	CategoryTotals(userID, yearMonth string) ([]CategoryTotal, error)
	MonthlySummary(userID, yearMonth string) (*MonthlySummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
