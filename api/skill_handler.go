package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skillRepo *database.SkillRepo
}

func newSkillHandler(skillRepo *database.SkillRepo) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()

	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skillRepo: skillRepo,
	}
}

type skillInput struct {
	Category *string   `json:"category"`
	Icon     *string   `json:"icon"`
	Items    *[]string `json:"items"`
}

func (in skillInput) applyTo(s *models.Skill) {
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Icon != nil {
		s.Icon = *in.Icon
	}
	if in.Items != nil {
		s.Items = *in.Items
	}
}

func skillIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "skillID"))
	if err != nil {
		return uuid.Nil, errs.NewNotFound("skill")
	}
	return id, nil
}

func (h skillHandler) readSkill(w http.ResponseWriter, r *http.Request, skill *models.Skill) error {
	var in skillInput
	if err := decodeJSON(w, r, "skill", &in); err != nil {
		return err
	}

	in.applyTo(skill)
	if fieldErrs := models.ValidateSkill(skill); len(fieldErrs) > 0 {
		return errs.NewValidationError(fieldErrs.Messages())
	}
	return nil
}

// @Router /api/skills [get]
func (h skillHandler) getAllSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.skillRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skills", "skills", err))
			return
		}
		h.responder.WriteJSON(w, skills)
	}
}

// @Router /api/skills [post]
func (h skillHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var skill models.Skill
		if err := h.readSkill(w, r, &skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skillRepo.Add(r.Context(), &skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create skill", "skill", err))
			return
		}

		h.responder.WriteJSON(w, skill)
	}
}

// @Router /api/skills/{skillID} [put]
func (h skillHandler) updateSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := skillIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		skill, err := h.skillRepo.FindByIDForUpdate(r.Context(), skillID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skill", "skill", err))
			return
		}

		if err := h.readSkill(w, r, skill); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skillRepo.Update(r.Context(), skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteJSON(w, skill)
	}
}

// @Router /api/skills/{skillID} [delete]
func (h skillHandler) deleteSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skillID, err := skillIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.skillRepo.Delete(r.Context(), skillID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, "Skill removed")
	}
}
