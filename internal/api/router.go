package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/collabmatch/collabmatch/internal/app"
	iauth "github.com/collabmatch/collabmatch/internal/auth"
	"github.com/collabmatch/collabmatch/internal/handlers"
	"github.com/collabmatch/collabmatch/internal/middleware"
	"github.com/collabmatch/collabmatch/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, outbox *services.OutboxService) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return nil, err
	}
	registerAuthRoutes(r, authHandler)

	awards := cfg.Trust.Awards()

	entityHandler, err := handlers.NewEntityHandler(db, outbox, services.WithEntityTrustAwards(awards))
	if err != nil {
		return nil, err
	}
	requestHandler, err := handlers.NewRequestHandler(db, outbox, services.WithTrustAwards(awards))
	if err != nil {
		return nil, err
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	registerEntityRoutes(api, entityHandler)
	registerRequestRoutes(api, requestHandler)

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
