package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tokenIssuer interface {
	Issue(userID uuid.UUID, isAdmin bool) (string, error)
}

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    tokenIssuer
	passwords *services.PasswordHasher
}

func newAuthHandler(userRepo *database.UserRepo, tokens tokenIssuer, passwords *services.PasswordHasher) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
		passwords: passwords,
	}
}

func (h authHandler) readCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if err := decodeJSON(w, r, "credentials", &req); err != nil {
		return req, err
	}
	req.Username = strings.TrimSpace(req.Username)

	if fieldErrs := models.ValidateCredentials(req.Username, req.Password); len(fieldErrs) > 0 {
		return req, errs.NewValidationError(fieldErrs.Messages())
	}
	return req, nil
}

func (h authHandler) writeToken(w http.ResponseWriter, user *models.User) {
	token, err := h.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	h.responder.WriteJSON(w, tokenResponse{Token: token})
}

// register creates an account. The very first account becomes the admin.
// @Router /api/auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.readCredentials(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := h.passwords.Hash(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause(serverErrorMsg, err))
			return
		}

		user := models.User{Username: req.Username, Password: hash}
		if err := h.userRepo.Register(r.Context(), &user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("register user", "user", err))
			return
		}

		h.logger.Info().
			Str("userID", user.ID.String()).
			Bool("isAdmin", user.IsAdmin).
			Msg("user registered")
		h.writeToken(w, &user)
	}
}

// authenticate answers an unknown username and a wrong password with the
// same error so neither reveals which accounts exist.
func (h authHandler) authenticate(ctx context.Context, req credentialsRequest) (*models.User, error) {
	user, err := h.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errs.IsNotFound(err) {
			h.passwords.Burn(req.Password)
			return nil, errs.NewInvalidCredentialsError()
		}
		return nil, wrapDatabaseError("find user", "user", err)
	}

	if !h.passwords.Matches(user.Password, req.Password) {
		return nil, errs.NewInvalidCredentialsError()
	}
	return user, nil
}

// login exchanges a username and password for a token
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.readCredentials(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.authenticate(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.writeToken(w, user)
	}
}

// me returns the stored account of the token's bearer
// @Router /api/auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), identity.UserID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
