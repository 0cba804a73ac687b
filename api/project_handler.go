package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const dateOnlyLayout = "2006-01-02"

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
	now         func() time.Time
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// projectInput is the body of create and update. Absent fields stay nil, so an
// update only touches what the client sent.
type projectInput struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	ProjectLink  *string   `json:"projectLink"`
	Images       *[]string `json:"images"`
	Videos       *[]string `json:"videos"`
	Technologies *[]string `json:"technologies"`
	Date         *string   `json:"date"`
	Categories   *[]string `json:"categories"`
	Priority     *int      `json:"priority"`
	LiveDemo     *string   `json:"liveDemo"`
	SourceCode   *string   `json:"sourceCode"`
}

// applyTo merges the supplied fields into p and returns field errors for values
// that cannot be converted.
func (in projectInput) applyTo(p *models.Project) models.FieldErrors {
	var fieldErrs models.FieldErrors

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ProjectLink != nil {
		p.ProjectLink = *in.ProjectLink
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.Videos != nil {
		p.Videos = *in.Videos
	}
	if in.Technologies != nil {
		p.Technologies = *in.Technologies
	}
	if in.Categories != nil {
		p.Categories = *in.Categories
	}
	if in.Priority != nil {
		p.Priority = *in.Priority
	}
	if in.LiveDemo != nil {
		p.LiveDemo = *in.LiveDemo
	}
	if in.SourceCode != nil {
		p.SourceCode = *in.SourceCode
	}
	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		date, ok := parseProjectDate(*in.Date)
		if ok {
			p.Date = date
		} else {
			fieldErrs = append(fieldErrs, models.FieldError{
				Field:   "date",
				Message: "Project date must be YYYY-MM-DD or an RFC 3339 timestamp",
			})
		}
	}

	return fieldErrs
}

// parseProjectDate accepts a full timestamp or a bare calendar date and
// normalizes to UTC.
func parseProjectDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// projectIDParam parses {projectID}. A malformed id can never name a stored
// project, so it is reported as not found.
func projectIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return uuid.Nil, errs.NewNotFound("project")
	}
	return id, nil
}

func (h projectHandler) readProject(w http.ResponseWriter, r *http.Request, project *models.Project) error {
	var in projectInput
	if err := decodeJSON(w, r, "project", &in); err != nil {
		return err
	}

	fieldErrs := in.applyTo(project)
	fieldErrs = append(fieldErrs, models.ValidateProject(project)...)
	if len(fieldErrs) > 0 {
		return errs.NewValidationError(fieldErrs.Messages())
	}
	return nil
}

// getAllProjects lists every project by priority, then date, both descending
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, projects)
	}
}

// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject validates and stores a new project. A missing date defaults to now.
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project := models.Project{Date: h.now().UTC()}
		if err := h.readProject(w, r, &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteJSON(w, project)
	}
}

// updateProject merges the supplied fields into the stored project and
// validates the result as a whole
// @Router /api/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByIDForUpdate(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		if err := h.readProject(w, r, project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		h.logger.Info().Str("projectID", projectID.String()).Msg("project removed")
		h.responder.WriteMessage(w, http.StatusOK, "Project removed")
	}
}
