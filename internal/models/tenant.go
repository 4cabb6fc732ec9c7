package models

// Tenant owns every other entity. Slug is unique and derived from Name.
type Tenant struct {
	Base
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"not null;uniqueIndex" json:"slug"`
}
