package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a portfolio entry
type Project struct {
	ID           uuid.UUID                   `json:"_id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string                      `json:"title" db:"title" gorm:"type:varchar(100);not null"`
	Description  string                      `json:"description" db:"description" gorm:"type:text;not null"`
	ProjectLink  string                      `json:"projectLink" db:"project_link" gorm:"type:text;not null"`
	Images       datatypes.JSONSlice[string] `json:"images" db:"images" gorm:"not null"`
	Videos       datatypes.JSONSlice[string] `json:"videos" db:"videos"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"not null"`
	Date         time.Time                   `json:"date" db:"date" gorm:"not null;index:idx_projects_ranking,priority:2"`
	Categories   datatypes.JSONSlice[string] `json:"categories" db:"categories" gorm:"not null"`
	Priority     int                         `json:"priority" db:"priority" gorm:"not null;default:0;index:idx_projects_ranking,priority:1"`
	LiveDemo     string                      `json:"liveDemo" db:"live_demo" gorm:"type:text;not null;default:''"`
	SourceCode   string                      `json:"sourceCode" db:"source_code" gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time                   `json:"updatedAt" db:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Videos == nil {
		p.Videos = datatypes.JSONSlice[string]{}
	}
	return nil
}
