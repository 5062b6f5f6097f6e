package geocode

import (
	"time"

	apphttp "tradecareers_backend/internal/http"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
)

// Module wires the geocoding proxy HTTP route.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.GeocoderConfig, log *logger.Logger) *Module {
	svc := NewService(cfg, log)
	h := NewHandler(svc)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "geocode"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	limit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "geocode:post", MaxRequests: 40, Period: time.Minute,
	})

	ctx.V1.POST("/geocode", limit, m.handler.Forward)
}

var _ apphttp.Module = (*Module)(nil)
