package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ValidateCategory fails with ErrInvalidCategory unless categoryID names a
// category of the tenant.
func (s *categoryService) ValidateCategory(tx *gorm.DB, tenantID, categoryID string) error {
	if categoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidCategory, "category ID is required")
	}

	var count int64
	if err := tx.Model(&models.Category{}).
		Where("id = ? AND tenant_id = ?", categoryID, tenantID).
		Count(&count).Error; err != nil {
		return dbError(err)
	}
	if count == 0 {
		return apperrors.ErrInvalidCategory
	}
	return nil
}

// CreateCategory creates a new category, optionally below parentID.
func (s *categoryService) CreateCategory(ctx context.Context, tenantID, name string, parentID *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	category := &models.Category{
		TenantScope: models.TenantScope{TenantID: tenantID},
		Name:        name,
		ParentID:    parentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			if err := s.ValidateCategory(tx, tenantID, *parentID); err != nil {
				return apperrors.WithMessage(apperrors.ErrInvalidCategory, "parent category does not exist")
			}
		}
		if err := tx.Create(category).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategories returns every category of a tenant ordered by name, so a
// client can rebuild the tree.
func (s *categoryService) GetCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, dbError(err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category of the tenant.
func (s *categoryService) GetCategoryByID(ctx context.Context, tenantID, categoryID string) (*models.Category, error) {
	return findCategory(s.db.WithContext(ctx), tenantID, categoryID)
}

func findCategory(tx *gorm.DB, tenantID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := tx.Where("id = ? AND tenant_id = ?", categoryID, tenantID).First(&category).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// loadCategoryTree loads the tenant's whole category arena.
func loadCategoryTree(tx *gorm.DB, tenantID string) (*categoryTree, error) {
	var categories []models.Category
	if err := tx.Where("tenant_id = ?", tenantID).Find(&categories).Error; err != nil {
		return nil, dbError(err)
	}
	return newCategoryTree(categories), nil
}

// GetDescendantIDs returns the category id followed by the ids of all its
// descendants.
func (s *categoryService) GetDescendantIDs(ctx context.Context, tenantID, categoryID string) ([]string, error) {
	tree, err := loadCategoryTree(s.db.WithContext(ctx), tenantID)
	if err != nil {
		return nil, err
	}
	return tree.Descendants(categoryID)
}

// UpdateCategory renames and/or re-parents a category. Moving a category
// below one of its own descendants is rejected.
func (s *categoryService) UpdateCategory(ctx context.Context, tenantID, categoryID string, fields CategoryUpdateFields) (*models.Category, error) {
	var category *models.Category

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = findCategory(tx, tenantID, categoryID)
		if err != nil {
			return err
		}

		updates := make(map[string]any)
		if fields.Name != nil {
			name := strings.TrimSpace(*fields.Name)
			if name == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
			}
			updates["name"] = name
		}

		if fields.ParentID != nil {
			if *fields.ParentID == "" {
				updates["parent_id"] = nil
			} else {
				parentID := *fields.ParentID
				if parentID == categoryID {
					return apperrors.ErrSelfParentCategory
				}
				tree, err := loadCategoryTree(tx, tenantID)
				if err != nil {
					return err
				}
				if !tree.Contains(parentID) {
					return apperrors.WithMessage(apperrors.ErrInvalidCategory, "parent category does not exist")
				}
				if tree.WouldCycle(categoryID, parentID) {
					return apperrors.ErrCategoryCycle
				}
				updates["parent_id"] = parentID
			}
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(category).Updates(updates).Error; err != nil {
			return dbError(err)
		}
		category, err = findCategory(tx, tenantID, categoryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category and all of its descendants. Budget items
// of the removed categories are deleted; transactions and payables keep
// existing without a category.
func (s *categoryService) DeleteCategory(ctx context.Context, tenantID, categoryID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tree, err := loadCategoryTree(tx, tenantID)
		if err != nil {
			return err
		}
		ids, err := tree.Descendants(categoryID)
		if err != nil {
			return err
		}

		if err := tx.Where("tenant_id = ? AND category_id IN ?", tenantID, ids).
			Delete(&models.BudgetItem{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Model(&models.Transaction{}).
			Where("tenant_id = ? AND category_id IN ?", tenantID, ids).
			Update("category_id", nil).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Model(&models.Payable{}).
			Where("tenant_id = ? AND category_id IN ?", tenantID, ids).
			Update("category_id", nil).Error; err != nil {
			return dbError(err)
		}
		// Children first keeps the parent foreign key satisfied at every step.
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.Where("tenant_id = ? AND id = ?", tenantID, ids[i]).
				Delete(&models.Category{}).Error; err != nil {
				return dbError(err)
			}
		}
		return nil
	})
}
