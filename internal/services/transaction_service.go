package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/pagination"
	"ledgerly/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db, now: time.Now}
}

// CreateTransaction records an income or expense for userID. Expenses must
// name one of the caller's categories; any category given for income is
// dropped.
func (s *transactionService) CreateTransaction(
	userID string,
	categoryID *string,
	transactionType models.TransactionType,
	amount decimal.Decimal,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if !transactionType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}

	var category *models.Category
	switch transactionType {
	case models.TransactionTypeExpense:
		if categoryID == nil || strings.TrimSpace(*categoryID) == "" {
			return nil, apperrors.ErrCategoryRequired
		}
		var err error
		category, err = s.ownedCategory(userID, strings.TrimSpace(*categoryID))
		if err != nil {
			return nil, err
		}
	case models.TransactionTypeIncome:
		categoryID = nil
	}

	if date.IsZero() {
		date = s.now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        transactionType,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Date:        date.UTC(),
	}
	if category != nil {
		transaction.CategoryID = &category.ID
	}

	if err := s.db.Omit("Category").Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	transaction.Category = category

	return transaction, nil
}

// ownedCategory resolves an expense's category, which must belong to userID.
func (s *transactionService) ownedCategory(userID, categoryID string) (*models.Category, error) {
	notFound := apperrors.WithMessage(apperrors.ErrInvalidInput, "Category does not exist")
	if !uuid.IsValid(categoryID) {
		return nil, notFound
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetUserTransactions lists the user's transactions newest first with their
// categories loaded. The returned total counts every match regardless of page.
func (s *transactionService) GetUserTransactions(userID string, filter TransactionFilter, page pagination.PageRequest) ([]models.Transaction, int64, error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transactions := []models.Transaction{}
	if err := base.Preload("Category").
		Order("date DESC").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transactions, totalItems, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// findTransaction loads a transaction by id alone, without any ownership filter.
func (s *transactionService) findTransaction(transactionID string) (*models.Transaction, error) {
	if !uuid.IsValid(transactionID) {
		return nil, apperrors.ErrTransactionNotFound
	}

	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetTransactionByID returns the transaction if it exists and belongs to userID.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	transaction, err := s.findTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(transaction, userID); err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction owned by userID.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Transaction{}, "id = ?", transaction.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
