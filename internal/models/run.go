package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConversionRun is one completed pipeline run persisted for history. Document
// holds the serialized product array exactly as it was produced.
type ConversionRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string         `gorm:"not null;index" json:"filename"`
	ProductCount int            `gorm:"not null" json:"productCount"`
	FallbackRows int            `gorm:"not null;default:0" json:"fallbackRows"`
	Document     datatypes.JSON `gorm:"type:jsonb" json:"document"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (r *ConversionRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
