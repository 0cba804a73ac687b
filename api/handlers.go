package api

import (
	"time"

	"github.com/rpupo63/portfolio-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, deps Dependencies, startupTime time.Time) *routeHandlers {
	handlers := &routeHandlers{
		authHandler:    newAuthHandler(database.UserRepo(), deps.Tokens, deps.Passwords),
		projectHandler: newProjectHandler(database.ProjectRepo()),
		skillHandler:   newSkillHandler(database.SkillRepo()),
		contactHandler: newContactHandler(deps.Contact),
		healthHandler:  newHealthHandler(database, startupTime),
	}
	if deps.Media != nil {
		h := newUploadHandler(deps.Media)
		handlers.uploadHandler = &h
	}
	return handlers
}
