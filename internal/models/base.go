package models

import (
	"time"

	"moneyboard/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Rows are hard-deleted.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// TenantScope is embedded by every tenant-owned entity.
type TenantScope struct {
	TenantID string `gorm:"type:uuid;not null;index" json:"tenant_id"`
}

// All lists every model, in dependency order, for auto-migration.
func All() []any {
	return []any{
		&Tenant{},
		&Account{},
		&Category{},
		&Transaction{},
		&Transfer{},
		&Payable{},
		&BudgetItem{},
		&AuditLog{},
	}
}
