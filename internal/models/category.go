package models

import "github.com/shopspring/decimal"

// Category groups expenses for one user. MonthlyBudget is informational and
// never enforced against spending.
type Category struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name          string          `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	MonthlyBudget decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"monthly_budget"`
}

// OwnerID returns the id of the user that owns the category.
func (c *Category) OwnerID() string { return c.UserID }
