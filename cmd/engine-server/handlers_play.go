package main

import (
	"net/http"

	"quant-casino/internal/app/play"
	"quant-casino/internal/game"

	"github.com/go-chi/chi/v5"
)

func registerHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name string `json:"name"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.Register(r.Context(), play.RegisterInput{Name: in.Name})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func meHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := svc.Balance(r.Context(), account.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func diceBetHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in struct {
			game.DiceBet
			ClientSeed string `json:"clientSeed"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.PlayDice(r.Context(), account.ID, in.DiceBet, in.ClientSeed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func blackjackBetHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in struct {
			game.BlackjackBet
			ClientSeed string `json:"clientSeed"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.PlayBlackjack(r.Context(), account.ID, in.BlackjackBet, in.ClientSeed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func plinkoBetHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in struct {
			game.PlinkoBet
			ClientSeed string `json:"clientSeed"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.PlayPlinko(r.Context(), account.ID, in.PlinkoBet, in.ClientSeed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func slotsBetHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in struct {
			game.SlotsBet
			ClientSeed string `json:"clientSeed"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.PlaySlots(r.Context(), account.ID, in.SlotsBet, in.ClientSeed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func runStrategyHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in play.RunInput
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.RunStrategy(r.Context(), account.ID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func roundsHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := parsePagination(r)
		resp, err := svc.Rounds(r.Context(), account.ID, r.URL.Query().Get("game"), limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func verifyRoundHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := svc.VerifyRound(r.Context(), account.ID, chi.URLParam(r, "round_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func ledgerHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := parsePagination(r)
		resp, err := svc.Ledger(r.Context(), account.ID, limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func activeSeedHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := svc.ActiveSeed(r.Context(), account.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func rotateSeedHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var in struct {
			ClientSeed string `json:"clientSeed"`
		}
		if !decodeJSONBody(w, r, &in) {
			return
		}
		resp, err := svc.RotateSeed(r.Context(), account.ID, in.ClientSeed)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func revealSeedHandler(svc *play.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		resp, err := svc.RevealSeed(r.Context(), account.ID, chi.URLParam(r, "seed_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}
