package http

import (
	"context"

	"tradecareers_backend/internal/events"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Limiter backs the per-route rate limit middleware.
	Limiter *ratelimit.Limiter
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
