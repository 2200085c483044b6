package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/models"
	"ledgerly/internal/uuid"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category owned by userID.
func (s *categoryService) CreateCategory(userID, name string, monthlyBudget decimal.Decimal) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}
	if monthlyBudget.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Monthly budget cannot be negative")
	}

	taken, err := s.nameTaken(userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:        userID,
		Name:          name,
		MonthlyBudget: monthlyBudget,
	}

	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// nameTaken reports whether userID already has a category called name,
// ignoring the category excludeID.
func (s *categoryService) nameTaken(userID, name, excludeID string) (bool, error) {
	q := s.db.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// GetUserCategories returns all of the user's categories sorted by name.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// findCategory loads a category by id alone, without any ownership filter.
func (s *categoryService) findCategory(categoryID string) (*models.Category, error) {
	if !uuid.IsValid(categoryID) {
		return nil, apperrors.ErrCategoryNotFound
	}

	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetCategoryByID returns the category if it exists and belongs to userID.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	category, err := s.findCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(category, userID); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies the provided fields. A blank name is ignored.
func (s *categoryService) UpdateCategory(userID, categoryID string, name *string, monthlyBudget *decimal.Decimal) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed != "" && trimmed != category.Name {
			taken, err := s.nameTaken(userID, trimmed, category.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.ErrDuplicateCategory
			}
			updates["name"] = trimmed
			category.Name = trimmed
		}
	}

	if monthlyBudget != nil {
		if monthlyBudget.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Monthly budget cannot be negative")
		}
		updates["monthly_budget"] = *monthlyBudget
		category.MonthlyBudget = *monthlyBudget
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrDuplicateCategory
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory removes the category. Transactions that reference it keep
// their category_id and render without a category afterwards.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
