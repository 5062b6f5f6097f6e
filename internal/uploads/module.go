package uploads

import (
	"time"

	apphttp "tradecareers_backend/internal/http"
	"tradecareers_backend/internal/storage"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/ratelimit"
)

// Module wires the presigned upload routes. It is only mounted when MinIO is
// configured; without it job postings and profiles simply have no images.
type Module struct {
	handler *Handler
	cfg     config.MinIOConfig
}

func NewModule(store storage.Service, cfg config.MinIOConfig, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(store, log),
		cfg:     cfg,
	}
}

func (m *Module) Name() string {
	return "uploads"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	limit := ctx.Limiter.Middleware(ratelimit.Window{
		Key: "uploads:post", MaxRequests: 20, Period: time.Minute,
	})

	group := ctx.V1.Group("/uploads", limit)
	group.POST("/company-logo", m.handler.PresignCompanyLogo(m.cfg.GetMinioBucketCompanyLogos()))
	group.POST("/installer-avatar", m.handler.PresignInstallerAvatar(m.cfg.GetMinioBucketInstallerAvatars()))
	group.POST("/resume", m.handler.PresignResume(m.cfg.GetMinioBucketResumes()))
}

var _ apphttp.Module = (*Module)(nil)
