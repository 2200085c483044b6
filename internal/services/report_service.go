package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/validator"
)

// reportService computes read-only aggregations over transactions.
type reportService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewReportService creates a new ReportServicer. Month boundaries are taken
// in loc; a nil loc means the server's local time zone.
func NewReportService(db *gorm.DB, loc *time.Location) ReportServicer {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{db: db, loc: loc}
}

// monthBounds returns the half-open range [start, end) covering yearMonth.
func (s *reportService) monthBounds(yearMonth string) (time.Time, time.Time, error) {
	year, month, err := validator.ParseYearMonth(yearMonth)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 1, 0), nil
}

// CategoryTotals sums the user's expenses per category for one month.
// Categories without spending are omitted, as are expenses whose category
// no longer exists.
func (s *reportService) CategoryTotals(userID, yearMonth string) ([]CategoryTotal, error) {
	start, end, err := s.monthBounds(yearMonth)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Category string
		Total    decimal.Decimal
	}
	err = s.db.Model(&models.Transaction{}).
		Select("categories.name AS category, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Where("transactions.type = ?", models.TransactionTypeExpense).
		Where("transactions.date >= ? AND transactions.date < ?", start.UTC(), end.UTC()).
		Group("categories.id, categories.name").
		Order("total DESC").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, CategoryTotal{Category: r.Category, Total: r.Total.Round(2)})
	}
	return totals, nil
}

// MonthlySummary totals the user's income and expenses for one month.
func (s *reportService) MonthlySummary(userID, yearMonth string) (*MonthlySummary, error) {
	start, end, err := s.monthBounds(yearMonth)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Type  models.TransactionType
		Total decimal.Decimal
	}
	err = s.db.Model(&models.Transaction{}).
		Select("type, SUM(amount) AS total").
		Where("user_id = ?", userID).
		Where("date >= ? AND date < ?", start.UTC(), end.UTC()).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MonthlySummary{
		Month:   fmt.Sprintf("%04d-%02d", start.Year(), int(start.Month())),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, r := range rows {
		switch r.Type {
		case models.TransactionTypeIncome:
			summary.Income = r.Total.Round(2)
		case models.TransactionTypeExpense:
			summary.Expense = r.Total.Round(2)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)

	return summary, nil
}
