package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/config"
	"github.com/mamadbah2/birdo/internal/server/middleware"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(g *gin.RouterGroup)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options carries what the engine needs besides the route groups.
type Options struct {
	Server config.ServerConfig
	// Auth guards /api/v1. Nil leaves the group open, which only tests do.
	Auth gin.HandlerFunc
	// Health is pinged by /healthz when set.
	Health Pinger
	Logger *zap.Logger
}

// New wires the Gin engine with required routes and middlewares.
func New(opts Options, routes ...Registrar) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(corsConfig(opts.Server.AllowedOrigins)))

	r.GET("/healthz", health(opts.Health, logger))

	api := r.Group("/api/v1")
	if opts.Auth != nil {
		api.Use(opts.Auth)
	}
	for _, route := range routes {
		route.Register(api)
	}

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func health(p Pinger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
