package http_init

import (
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

// Controller is any delivery unit that mounts routes under the API prefix.
// The websocket gateway registers through the same pool as the REST
// controllers so the whole surface shares one engine and one port.
type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
	logger *slog.Logger
}

func NewControllerPool(logger *slog.Logger) *ControllerPool {
	if logger == nil {
		logger = slog.Default()
	}
	engine := gin.Default()
	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
		logger: logger,
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
	pool.logger.Info("routes registered", "controllers", len(pool.pool), "prefix", apiPrefix)
}

func (pool *ControllerPool) RunAll(port string) {
	pool.logger.Info("http server starting", "port", port)
	if err := pool.engine.Run(":" + port); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}
