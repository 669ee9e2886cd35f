package fx

import (
	"acd-tierlist/internal/auth"
	"acd-tierlist/internal/config"
	"acd-tierlist/internal/logger"
	"acd-tierlist/internal/repository"
	"acd-tierlist/internal/seed"
	"acd-tierlist/internal/server"
	"acd-tierlist/internal/service"
	"acd-tierlist/internal/store"

	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	// storage
	fx.Provide(repository.New),
	fx.Provide(store.New),
	// seed
	fx.Provide(seed.NewFetcher),
	fx.Provide(seed.NewLoader),
	// svc
	fx.Provide(auth.NewSessionManager),
	fx.Provide(service.NewTierListService),
	// server
	fx.Provide(server.NewTierListServer),
)
