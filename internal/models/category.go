package models

// Category is a node in a tenant's category tree. A nil ParentID marks a root.
type Category struct {
	Base
	TenantScope
	Name     string  `gorm:"not null" json:"name"`
	ParentID *string `gorm:"type:uuid;index" json:"parent_id"`
}
