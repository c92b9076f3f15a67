package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"quant-casino/internal/app/play"
	"quant-casino/internal/game"
	"quant-casino/internal/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
)

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestBody:     func(*http.Request) bool { return false },
			LogResponseBody:    func(*http.Request) bool { return false },
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				rc := chi.RouteContext(req.Context())
				route := req.URL.Path
				if rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

// writeServiceError maps the application sentinels onto HTTP statuses; the
// error text doubles as the wire code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, play.ErrInvalidRequest),
		errors.Is(err, game.ErrInvalidTarget),
		errors.Is(err, game.ErrInvalidCondition),
		errors.Is(err, game.ErrInvalidRisk),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrUnknownGame):
		writeHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, play.ErrInsufficientFund):
		writeHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, play.ErrAccountNotFound),
		errors.Is(err, play.ErrRoundNotFound),
		errors.Is(err, play.ErrSeedNotFound),
		errors.Is(err, play.ErrStrategyNotFound):
		writeHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, play.ErrSeedStillActive):
		writeHTTPError(w, http.StatusConflict, err.Error())
	default:
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeHTTPError(w, http.StatusBadRequest, "invalid_request")
		return false
	}
	return true
}

func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
