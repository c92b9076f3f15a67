package main

import (
	"net/http"

	"quant-casino/internal/app/play"
	"quant-casino/internal/rules"

	"github.com/go-chi/chi/v5"
)

func saveStrategyHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in rules.Strategy
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.SaveStrategy(r.Context(), account.ID, &in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func getStrategyHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := svc.GetStrategy(r.Context(), account.ID, chi.URLParam(r, "strategy_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func listStrategiesHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := parsePagination(r)
		resp, err := svc.ListStrategies(r.Context(), account.ID, limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func deleteStrategyHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := svc.DeleteStrategy(r.Context(), account.ID, chi.URLParam(r, "strategy_id")); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	}
}
