package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneyboard/internal/dates"
	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// budgetService handles the budget planner.
type budgetService struct {
	db         *gorm.DB
	categories CategoryValidator
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categories CategoryValidator) BudgetServicer {
	return &budgetService{
		db:         db,
		categories: categories,
	}
}

func checkBudgetValue(value decimal.Decimal, itemType models.BudgetItemType) (decimal.Decimal, error) {
	if !itemType.IsValid() {
		return value, apperrors.ErrInvalidBudgetType
	}
	value = value.Round(2)
	if !value.IsPositive() {
		return value, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must be greater than zero")
	}
	if itemType == models.BudgetItemTypePercentage && value.GreaterThan(hundred) {
		return value, apperrors.WithMessage(apperrors.ErrInvalidInput, "percentage must not exceed 100")
	}
	return value, nil
}

// CreateBudgetItem plans spending for a category. A category has at most one
// budget item.
func (s *budgetService) CreateBudgetItem(ctx context.Context, tenantID, categoryID string, value decimal.Decimal, itemType models.BudgetItemType) (*models.BudgetItem, error) {
	value, err := checkBudgetValue(value, itemType)
	if err != nil {
		return nil, err
	}

	item := &models.BudgetItem{
		TenantID:   tenantID,
		CategoryID: categoryID,
		Value:      value,
		Type:       itemType,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.categories.ValidateCategory(tx, tenantID, categoryID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.BudgetItem{}).
			Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
			Count(&count).Error; err != nil {
			return dbError(err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateBudgetItem
		}

		if err := tx.Create(item).Error; err != nil {
			if err = dbError(err); apperrors.IsKind(err, apperrors.KindConflict) {
				return apperrors.Wrap(apperrors.ErrDuplicateBudgetItem, errors.Unwrap(err))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetBudgetItems returns every budget item of a tenant.
func (s *budgetService) GetBudgetItems(ctx context.Context, tenantID string) ([]models.BudgetItem, error) {
	var items []models.BudgetItem
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, dbError(err)
	}
	return items, nil
}

// GetBudgetItemByID retrieves a budget item of the tenant.
func (s *budgetService) GetBudgetItemByID(ctx context.Context, tenantID, itemID string) (*models.BudgetItem, error) {
	return findBudgetItem(s.db.WithContext(ctx), tenantID, itemID)
}

func findBudgetItem(tx *gorm.DB, tenantID, itemID string) (*models.BudgetItem, error) {
	var item models.BudgetItem
	if err := tx.Where("id = ? AND tenant_id = ?", itemID, tenantID).First(&item).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrBudgetItemNotFound)
	}
	return &item, nil
}

// UpdateBudgetItem changes the value and/or type of a budget item.
func (s *budgetService) UpdateBudgetItem(ctx context.Context, tenantID, itemID string, value *decimal.Decimal, itemType *models.BudgetItemType) (*models.BudgetItem, error) {
	var item *models.BudgetItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if item, err = findBudgetItem(tx, tenantID, itemID); err != nil {
			return err
		}
		if value == nil && itemType == nil {
			return nil
		}

		newValue, newType := item.Value, item.Type
		if value != nil {
			newValue = *value
		}
		if itemType != nil {
			newType = *itemType
		}
		if newValue, err = checkBudgetValue(newValue, newType); err != nil {
			return err
		}

		item.Value = newValue
		item.Type = newType
		if err := tx.Model(item).Updates(map[string]any{
			"value": newValue,
			"type":  newType,
		}).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteBudgetItem removes a budget item.
func (s *budgetService) DeleteBudgetItem(ctx context.Context, tenantID, itemID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", itemID, tenantID).
		Delete(&models.BudgetItem{})
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetItemNotFound
	}
	return nil
}

// GetBudgetSummary evaluates every budget item against the given month.
// Percentage items plan a share of the month's income; spending counts
// expenses in the item's category and all of its descendants.
func (s *budgetService) GetBudgetSummary(ctx context.Context, tenantID string, month dates.Date) (*BudgetSummary, error) {
	from, to := month.FirstOfMonth(), month.LastOfMonth()
	summary := &BudgetSummary{
		Month: from.Format(dates.MonthLayout),
		Lines: []BudgetLine{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inMonth := "tenant_id = ? AND type = ? AND date >= ? AND date <= ?"
		income, err := sumAmount(tx.Model(&models.Transaction{}).
			Where(inMonth, tenantID, models.TransactionTypeIncome, from, to))
		if err != nil {
			return err
		}
		summary.TotalIncome = income

		var items []models.BudgetItem
		if err := tx.Where("tenant_id = ?", tenantID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
			return dbError(err)
		}
		if len(items) == 0 {
			return nil
		}

		tree, err := loadCategoryTree(tx, tenantID)
		if err != nil {
			return err
		}

		for _, item := range items {
			ids, err := tree.Descendants(item.CategoryID)
			if errors.Is(err, apperrors.ErrCategoryNotFound) {
				ids = []string{item.CategoryID}
			} else if err != nil {
				return err
			}

			spent, err := sumAmount(tx.Model(&models.Transaction{}).
				Where(inMonth, tenantID, models.TransactionTypeExpense, from, to).
				Where("category_id IN ?", ids))
			if err != nil {
				return err
			}

			line := evaluateBudgetItem(item, income, spent)
			line.CategoryName = tree.Name(item.CategoryID)
			summary.Lines = append(summary.Lines, line)
			summary.TotalPlanned = summary.TotalPlanned.Add(line.Planned)
			summary.TotalSpent = summary.TotalSpent.Add(line.Spent)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func evaluateBudgetItem(item models.BudgetItem, income, spent decimal.Decimal) BudgetLine {
	planned := item.Value
	if item.Type == models.BudgetItemTypePercentage {
		planned = income.Mul(item.Value).Div(hundred).Round(2)
	}

	percentage := decimal.Zero
	if planned.IsPositive() {
		percentage = spent.Div(planned).Mul(hundred).Round(2)
	}

	return BudgetLine{
		BudgetItemID: item.ID,
		CategoryID:   item.CategoryID,
		Type:         item.Type,
		Value:        item.Value,
		Planned:      planned,
		Spent:        spent,
		Remaining:    planned.Sub(spent),
		Percentage:   percentage,
	}
}
