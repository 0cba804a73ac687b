package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
)

const (
	maxResponseSize = 10 * 1024 * 1024
	maxJSONBodySize = 1 << 20
	serverErrorMsg  = "Server error"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// messageResponse is the body of every error and of acknowledgements
type messageResponse struct {
	Msg    string   `json:"msg"`
	Errors []string `json:"errors,omitempty"`
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		r.writeRaw(w, http.StatusInternalServerError, []byte(`{"msg":"Server error"}`))
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		r.writeRaw(w, http.StatusInternalServerError, []byte(`{"msg":"Server error"}`))
		return
	}

	r.writeRaw(w, status, jsonData)
}

func (r Responder) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteMessage writes {msg} with status
func (r Responder) WriteMessage(w http.ResponseWriter, status int, msg string) {
	r.WriteJSONStatus(w, status, messageResponse{Msg: msg})
}

// WriteError maps an ApiErr to its status and {msg[, errors]}. Anything else is
// logged and answered with a bare 500 so internals never reach the client.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteMessage(w, http.StatusInternalServerError, serverErrorMsg)
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Int("status", apiErr.StatusCode).Msg(apiErr.GetFullError())
	} else {
		r.logger.Debug().Int("status", apiErr.StatusCode).Msg(apiErr.Error())
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, messageResponse{
		Msg:    apiErr.Message(),
		Errors: apiErr.Errors,
	})
}

// decodeJSON reads a single JSON value of at most maxJSONBodySize bytes into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadType string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return errs.NewMalformedPayloadError(payloadType, errors.New("empty body"))
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadType, errors.New("unexpected data after JSON value"))
	}
	return nil
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
