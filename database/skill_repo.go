package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindAll returns all skills ordered alphabetically by category
func (r *SkillRepo) FindAll(ctx context.Context) ([]*models.Skill, error) {
	skills := []*models.Skill{}
	err := r.db.WithContext(ctx).Order("category ASC").Find(&skills).Error
	return skills, err
}

// FindByIDForUpdate returns a skill by its ID, read from the primary
func (r *SkillRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Where("id = ?", id).First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("skill")
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// Add inserts a new skill into the database
func (r *SkillRepo) Add(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

// Update writes every field of an existing skill
func (r *SkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	result := r.db.WithContext(ctx).Model(skill).Select("*").Omit("id", "created_at").Updates(skill)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("skill")
	}
	return nil
}

// Delete removes a skill from the database by id
func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Skill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("skill")
	}
	return nil
}
