package emergency

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medpal/medpal-api/internal/middleware"
	"github.com/medpal/medpal-api/internal/service/emergency"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/httputil"
)

type Handler struct {
	service *emergency.Service
}

func NewHandler(service *emergency.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/emergency/sos", h.TriggerSOS)
}

func (h *Handler) TriggerSOS(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	// Body is optional; an empty SOS still alerts.
	var req emergency.SOSRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
			return
		}
	}

	result, err := h.service.TriggerSOS(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}
