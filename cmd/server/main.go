package main

import (
	"context"
	"fmt"
	"net/http"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/constants"
	fxmodules "acd-tierlist/internal/fx"
	"acd-tierlist/internal/middleware"
	"acd-tierlist/internal/repository"
	"acd-tierlist/internal/seed"
	"acd-tierlist/internal/server"
	"acd-tierlist/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(bootstrapTierList),
		fx.Invoke(runServer),
	).Run()
}

func bootstrapTierList(lc fx.Lifecycle, svc *service.TierListService, loader *seed.Loader, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := svc.Bootstrap(ctx, loader); err != nil {
				logger.Error().Err(err).Msg("bootstrap failed")
				return err
			}
			return nil
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	tierListServer *server.TierListServer,
	cfg *config.Config,
	backend repository.Backend,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := tierListServer.Handler()
	mux.Handle(path, handler)
	mux.Handle(server.ExportPath, tierListServer.ExportHandler())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           middleware.RequestID(logger)(c.Handler(mux)),
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := backend.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing store backend")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
