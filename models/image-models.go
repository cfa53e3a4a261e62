package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Image struct {
	gorm.Model
	AuthorID uint           `json:"author_id" gorm:"not null;index"`
	PublicID string         `json:"public_id" gorm:"index"`
	URL      string         `json:"url"`
	Metadata datatypes.JSON `json:"metadata"`

	// Relationship. The author is set at creation and never reassigned.
	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
