package models

import (
	"gorm.io/gorm"
)

// User records are created by the external auth sync process and are
// read-only from this service's perspective.
type User struct {
	gorm.Model
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ExternalID string `json:"external_id" gorm:"uniqueIndex"`
}
