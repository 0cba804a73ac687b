package database

import (
	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	userRepo    *UserRepo
	projectRepo *ProjectRepo
	skillRepo   *SkillRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		userRepo:    NewUserRepo(db),
		projectRepo: NewProjectRepo(db),
		skillRepo:   NewSkillRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

// Ping checks the underlying connection.
func (d Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
