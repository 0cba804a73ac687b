package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// Count returns how many accounts exist
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.User{}).Count(&n).Error
	return n, err
}

// FindByID returns a user by its ID
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns a user by its username
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Where("username = ?", strings.TrimSpace(username)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register inserts user, granting admin and first-user status when no account
// exists yet. The count and insert share a transaction; two registrations racing
// on an empty table can still both see zero, so the rule is best-effort. A
// duplicate that slips past the check comes back as gorm.ErrDuplicatedKey.
func (r *UserRepo) Register(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errs.NewAlreadyExists("user")
		}

		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		isFirst := total == 0
		user.IsFirstUser = isFirst
		user.IsAdmin = user.IsAdmin || isFirst

		return tx.Create(user).Error
	})
}
