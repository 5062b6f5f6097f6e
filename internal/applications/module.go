package applications

import (
	"time"

	"tradecareers_backend/internal/applications/handler"
	"tradecareers_backend/internal/applications/repository"
	"tradecareers_backend/internal/applications/service"
	"tradecareers_backend/internal/events"
	apphttp "tradecareers_backend/internal/http"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
	"tradecareers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, jobs service.JobDirectory, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, jobs, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "applications"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	applyLimit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "applications:post", MaxRequests: 10, Period: time.Minute,
	})
	m.handler.RegisterRoutes(ctx.V1.Group("/jobs"), applyLimit)
}

var _ apphttp.Module = (*Module)(nil)
