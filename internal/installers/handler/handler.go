package handler

import (
	"net/http"

	"tradecareers_backend/internal/installers/service"
	"tradecareers_backend/internal/installers/transport"
	"tradecareers_backend/platform/httpkit"
	"tradecareers_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, searchLimit, writeLimit, optionalAuth gin.HandlerFunc) {
	rg.GET("", searchLimit, h.Search)
	rg.GET("/:slug", searchLimit, h.GetBySlug)
	rg.POST("", writeLimit, optionalAuth, h.Register)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.PUT("/me", httpkit.RequireAccountType("installer"), h.UpdateOwn)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.ListInstallersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetBySlug(c *gin.Context) {
	installer, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, installer)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterInstallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var owner *uuid.UUID
	if userID, ok := httpkit.GetUserID(c); ok {
		owner = &userID
	}

	profile, err := h.svc.Register(c.Request.Context(), req, owner)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, profile)
}

func (h *Handler) UpdateOwn(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	var req transport.UpdateInstallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.UpdateOwn(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, profile)
}
