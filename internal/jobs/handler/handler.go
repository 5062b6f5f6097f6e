package handler

import (
	"net/http"

	"tradecareers_backend/internal/jobs/service"
	"tradecareers_backend/internal/jobs/transport"
	"tradecareers_backend/platform/httpkit"
	"tradecareers_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	manageTokenHeader = "X-Manage-Token"
)

type Handler struct {
	svc           *service.Service
	val           *validator.Validator
	publicBaseURL string
}

func New(svc *service.Service, val *validator.Validator, publicBaseURL string) *Handler {
	return &Handler{svc: svc, val: val, publicBaseURL: publicBaseURL}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, searchLimit, writeLimit, optionalAuth gin.HandlerFunc) {
	rg.GET("", searchLimit, h.Search)
	rg.GET("/:slug", searchLimit, h.GetBySlug)
	rg.GET("/:slug/qr", searchLimit, h.QRCode)
	rg.POST("", writeLimit, optionalAuth, h.Create)
	rg.PUT("/:slug", writeLimit, optionalAuth, h.Update)
	rg.DELETE("/:slug", writeLimit, optionalAuth, h.Delete)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/mine", httpkit.RequireAccountType("employer"), h.ListMine)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.ListJobsRequest
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
	job, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, job)
}

// QRCode renders a PNG linking to the public job page, for print flyers and
// shop counter displays.
func (h *Handler) QRCode(c *gin.Context) {
	job, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(h.publicBaseURL+"/jobs/"+job.Slug, qrcode.Medium, 256)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "unable to render QR code", nil)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	// Posting is public; an authenticated employer gets ownership attached.
	var owner *uuid.UUID
	if userID, ok := httpkit.GetUserID(c); ok {
		owner = &userID
	}

	result, err := h.svc.Create(c.Request.Context(), req, owner)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	job, err := h.svc.Update(c.Request.Context(), c.Param("slug"), editorCredentials(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, job)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("slug"), editorCredentials(c))
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// editorCredentials collects both ways a caller may prove the right to edit a
// posting: the one-time manage token and, when authenticated, the owner account.
func editorCredentials(c *gin.Context) service.Credentials {
	creds := service.Credentials{ManageToken: c.GetHeader(manageTokenHeader)}
	if userID, ok := httpkit.GetUserID(c); ok {
		creds.UserID = &userID
	}
	return creds
}

func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	jobs, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": jobs})
}
