package model

import (
	"time"

	"gorm.io/gorm"
)

// Image represents the database model for uploaded originals. DeletedAt gives
// the soft-delete path; hard deletion bypasses it.
type Image struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;not null;index"`
	Label       string    `gorm:"not null;size:255"`
	ImageType   string    `gorm:"size:100"`
	Note        string    `gorm:"type:text"`
	StoragePath string    `gorm:"not null;size:512"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for Image
func (Image) TableName() string {
	return "images"
}
