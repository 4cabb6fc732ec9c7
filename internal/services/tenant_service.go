package services

import (
	"context"
	"strings"
	"unicode"

	"gorm.io/gorm"

	apperrors "moneyboard/internal/errors"
	"moneyboard/internal/models"
)

// tenantService provisions tenants.
type tenantService struct {
	db *gorm.DB
}

// NewTenantService creates a new TenantServicer.
func NewTenantService(db *gorm.DB) TenantServicer {
	return &tenantService{db: db}
}

// CreateTenant creates a tenant whose slug is derived from its name.
func (s *tenantService) CreateTenant(ctx context.Context, name string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tenant name must contain letters or digits")
	}

	tenant := &models.Tenant{Name: name, Slug: slug}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return dbError(err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateTenant
		}
		if err := tx.Create(tenant).Error; err != nil {
			if err = dbError(err); apperrors.IsKind(err, apperrors.KindConflict) {
				return apperrors.ErrDuplicateTenant
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetTenantByID retrieves a tenant.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		return nil, notFoundOr(err, apperrors.ErrTenantNotFound)
	}
	return &tenant, nil
}

// Slugify lowercases name and joins its runs of letters and digits with
// single dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
