package handler

import (
	"net/http"

	"tradecareers_backend/internal/applications/service"
	"tradecareers_backend/internal/applications/transport"
	"tradecareers_backend/platform/httpkit"
	"tradecareers_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, applyLimit gin.HandlerFunc) {
	rg.POST("/:slug/apply", applyLimit, h.Apply)
}

func (h *Handler) Apply(c *gin.Context) {
	var req transport.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.Apply(c.Request.Context(), c.Param("slug"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}
