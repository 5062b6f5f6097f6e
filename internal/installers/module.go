package installers

import (
	"time"

	"tradecareers_backend/internal/geo"
	apphttp "tradecareers_backend/internal/http"
	"tradecareers_backend/internal/installers/handler"
	"tradecareers_backend/internal/installers/repository"
	"tradecareers_backend/internal/installers/service"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
	"tradecareers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

func NewModule(pool *pgxpool.Pool, geoIndex *geo.Index, registry *taxonomy.Registry, cfg config.SearchConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, geoIndex, registry, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo}
}

func (m *Module) Name() string {
	return "installers"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	searchLimit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "installers:get", MaxRequests: 120, Period: time.Minute,
	})
	writeLimit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "installers:post", MaxRequests: 20, Period: time.Minute,
	})

	m.handler.RegisterPublicRoutes(ctx.V1.Group("/installers"), searchLimit, writeLimit, ctx.OptionalAuth)
	m.handler.RegisterProtectedRoutes(ctx.Protected.Group("/installers"))
}

// Repository exposes the data layer to the sitemap builder.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

var _ apphttp.Module = (*Module)(nil)
