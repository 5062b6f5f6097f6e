package geocode

import (
	"net/http"

	"tradecareers_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the forward-geocoding proxy endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Forward handles POST /api/v1/geocode.
func (h *Handler) Forward(c *gin.Context) {
	var req ForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "location is required (2-200 chars)", nil)
		return
	}

	coord, found, err := h.svc.Forward(c.Request.Context(), req.Location)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "geocoding service unavailable", nil)
		return
	}
	if !found {
		httpkit.Error(c, http.StatusNotFound, "location not found", nil)
		return
	}

	httpkit.OK(c, coord)
}
