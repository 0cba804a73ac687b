package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a site account. Only the hash of the password is ever stored.
type User struct {
	ID          uuid.UUID `json:"_id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username    string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_users_username"`
	Password    string    `json:"-" db:"password" gorm:"type:text;not null"`
	IsAdmin     bool      `json:"isAdmin" db:"is_admin" gorm:"not null;default:false"`
	IsFirstUser bool      `json:"isFirstUser" db:"is_first_user" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
