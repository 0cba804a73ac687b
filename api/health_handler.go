package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping() error
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          pinger
	startupTime time.Time
}

func newHealthHandler(db pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		startupTime: startupTime,
	}
}

// health reports liveness. A failed database ping is only logged.
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db != nil {
			if err := h.db.Ping(); err != nil {
				h.logger.Warn().Err(err).Msg("database ping failed")
			}
		}

		resp := healthResponse{Status: "ok"}
		if !h.startupTime.IsZero() {
			resp.Uptime = time.Since(h.startupTime).Truncate(time.Second).String()
		}
		h.responder.WriteJSON(w, resp)
	}
}
