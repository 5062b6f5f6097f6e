package jobs

import (
	"time"

	"tradecareers_backend/internal/events"
	"tradecareers_backend/internal/geo"
	apphttp "tradecareers_backend/internal/http"
	"tradecareers_backend/internal/jobs/handler"
	"tradecareers_backend/internal/jobs/repository"
	"tradecareers_backend/internal/jobs/service"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
	"tradecareers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines the config interfaces the jobs module needs.
type ModuleConfig interface {
	config.SearchConfig
	config.HTTPConfig
}

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	svc     *service.Service
}

func NewModule(pool *pgxpool.Pool, geoIndex *geo.Index, registry *taxonomy.Registry, cfg ModuleConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, geoIndex, registry, cfg, bus, log)
	h := handler.New(svc, val, cfg.GetPublicBaseURL())

	return &Module{handler: h, repo: repo, svc: svc}
}

func (m *Module) Name() string {
	return "jobs"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	searchLimit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "jobs:get", MaxRequests: 120, Period: time.Minute,
	})
	writeLimit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "jobs:post", MaxRequests: 20, Period: time.Minute,
	})

	m.handler.RegisterPublicRoutes(ctx.V1.Group("/jobs"), searchLimit, writeLimit, ctx.OptionalAuth)
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/jobs"))
}

// Repository exposes the data layer to the scheduler sweep and the geocode
// backfill command.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

var _ apphttp.Module = (*Module)(nil)
