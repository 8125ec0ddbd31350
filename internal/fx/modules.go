package fx

import (
	"league-intel/internal/api"
	"league-intel/internal/config"
	"league-intel/internal/database"
	"league-intel/internal/logger"
	"league-intel/internal/repository"
	"league-intel/internal/server"
	"league-intel/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewKVStore),
	fx.Provide(repository.NewPlayerCacheRepository),
	// api client
	fx.Provide(api.NewSleeperClient),
	fx.Provide(func(c *api.SleeperClient) service.LeagueFetcher { return c }),
	fx.Provide(func(c *api.SleeperClient) service.SeasonFetcher { return c }),
	fx.Provide(func(c *api.SleeperClient) service.UserFetcher { return c }),
	fx.Provide(func(c *api.SleeperClient) service.CatalogFetcher { return c }),
	// svc
	fx.Provide(service.NewTransactionCache),
	fx.Provide(service.NewHistoryWalker),
	fx.Provide(service.NewSeasonLoader),
	fx.Provide(service.NewCatalogService),
	fx.Provide(func(c *service.CatalogService) service.PlayerLookup { return c }),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewConnectService),
	fx.Provide(service.NewIntelService),
	// server
	fx.Provide(server.NewIntelServer),
)
