package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Skill is a named group of capabilities, e.g. "Frontend" with its tools
type Skill struct {
	ID        uuid.UUID                   `json:"_id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Category  string                      `json:"category" db:"category" gorm:"type:text;not null;index"`
	Icon      string                      `json:"icon" db:"icon" gorm:"type:text;not null"`
	Items     datatypes.JSONSlice[string] `json:"items" db:"items" gorm:"not null"`
	CreatedAt time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (Skill) TableName() string {
	return "skills"
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
