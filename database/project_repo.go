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

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, highest priority first and newest first within a priority
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.db.WithContext(ctx).
		Order("priority DESC").
		Order("date DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate reads from the primary so a following Update merges onto the
// latest row even when a replica lags.
func (r *ProjectRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.find(r.db.WithContext(ctx).Clauses(dbresolver.Write), id)
}

func (r *ProjectRepo) find(db *gorm.DB, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := db.Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update writes every field of an existing project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).Model(project).Select("*").Omit("id", "created_at").Updates(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}
