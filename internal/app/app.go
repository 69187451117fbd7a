package app

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/VICHiNG16/MusicDuel/internal/config"
	http_catalog "github.com/VICHiNG16/MusicDuel/internal/delivery/http/catalog"
	http_init "github.com/VICHiNG16/MusicDuel/internal/delivery/http/init"
	http_results "github.com/VICHiNG16/MusicDuel/internal/delivery/http/results"
	http_room "github.com/VICHiNG16/MusicDuel/internal/delivery/http/room"
	ws_room "github.com/VICHiNG16/MusicDuel/internal/delivery/ws/room"
	"github.com/VICHiNG16/MusicDuel/internal/docstore"
	docstore_memory "github.com/VICHiNG16/MusicDuel/internal/docstore/memory"
	infra_itunes "github.com/VICHiNG16/MusicDuel/internal/infra/itunes"
	infra_pg_init "github.com/VICHiNG16/MusicDuel/internal/infra/postgres/init"
	infra_postgres_results "github.com/VICHiNG16/MusicDuel/internal/infra/postgres/results"
	infra_redis_docstore "github.com/VICHiNG16/MusicDuel/internal/infra/redis/docstore"
	infra_redis_init "github.com/VICHiNG16/MusicDuel/internal/infra/redis/init"
	usecase_game "github.com/VICHiNG16/MusicDuel/internal/usecase/game"
	usecase_room "github.com/VICHiNG16/MusicDuel/internal/usecase/room"
)

func Go(cfg *config.Config) {
	logger := slog.Default()

	var store docstore.Store
	if cfg.Redis.Host == "" {
		logger.Warn("REDIS_HOST not set, using the in-process document store")
		store = docstore_memory.New()
	} else {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		store = infra_redis_docstore.New(redisConn, "musicduel")
	}

	var archiver usecase_game.Archiver
	var resultsRepo *infra_postgres_results.Driver
	if cfg.Postgres.Host != "" {
		pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
		resultsRepo = infra_postgres_results.New(pgConn)
		archiver = resultsRepo
	} else {
		logger.Warn("DB_HOST not set, match archive disabled")
	}

	catalog := infra_itunes.New(cfg.Catalog.BaseURL)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	roomUC := usecase_room.New(store, catalog, rng)

	hub := ws_room.NewHub(logger)
	roundLen := time.Duration(cfg.Game.RoundSeconds) * time.Second

	controllerPool := http_init.NewControllerPool(logger)
	controllerPool.Add(http_room.New(roomUC))
	controllerPool.Add(http_catalog.New(catalog))
	if resultsRepo != nil {
		controllerPool.Add(http_results.New(resultsRepo))
	}
	controllerPool.Add(ws_room.NewController(hub, store, archiver, roundLen))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
