package main

import (
	"context"
	"net/http"
	"time"

	"quant-casino/internal/app/play"
	"quant-casino/internal/config"
	"quant-casino/internal/logging"
	"quant-casino/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	svc := play.NewService(st, cfg.Server, cfg.Game)
	r := newRouter(st, svc, cfg.Server)
	logRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func newRouter(st *store.Store, svc *play.Service, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())

		r.Post("/accounts/register", registerHandler(svc))

		r.Group(func(r chi.Router) {
			r.Use(accountAuthMiddleware(st))

			r.Get("/accounts/me", meHandler(svc))

			r.Post("/games/dice/bet", diceBetHandler(svc))
			r.Post("/games/blackjack/bet", blackjackBetHandler(svc))
			r.Post("/games/plinko/bet", plinkoBetHandler(svc))
			r.Post("/games/slots/bet", slotsBetHandler(svc))
			r.Post("/games/dice/run-strategy", runStrategyHandler(svc))

			r.Get("/rounds", roundsHandler(svc))
			r.Get("/rounds/{round_id}/verify", verifyRoundHandler(svc))
			r.Get("/ledger", ledgerHandler(svc))

			r.Get("/seed", activeSeedHandler(svc))
			r.Post("/seed/rotate", rotateSeedHandler(svc))
			r.Post("/seeds/{seed_id}/reveal", revealSeedHandler(svc))

			r.Post("/strategies", saveStrategyHandler(svc))
			r.Get("/strategies", listStrategiesHandler(svc))
			r.Get("/strategies/{strategy_id}", getStrategyHandler(svc))
			r.Delete("/strategies/{strategy_id}", deleteStrategyHandler(svc))
		})

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/topup", topupHandler(svc))
		})
	})

	return r
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			writeHTTPError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	}
}

func logRoutes(r chi.Router) {
	_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		log.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	})
}
