package models

// DescriptionTag is a reusable description name offered for quick entry.
// Built-in tags are not stored and carry a "default-" id.
type DescriptionTag struct {
	Base
	HouseholdID string `gorm:"type:varchar(64);not null;index" json:"household_id,omitempty"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
}
