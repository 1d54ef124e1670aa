package model

import (
	"time"
)

// ImageJob represents the database model for processing jobs
type ImageJob struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	ImageID     string    `gorm:"type:uuid;not null;index"`
	JobType     string    `gorm:"not null;size:20"`
	Priority    string    `gorm:"not null;size:20"`
	Status      string    `gorm:"not null;size:20;index"`
	StoragePath string    `gorm:"size:512"`
	Attempts    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	Image Image `gorm:"foreignKey:ImageID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for ImageJob
func (ImageJob) TableName() string {
	return "image_jobs"
}
