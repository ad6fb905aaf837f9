package adherence

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/middleware"
	"github.com/medpal/medpal-api/internal/service/adherence"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/httputil"
)

type Handler struct {
	service *adherence.Service
}

func NewHandler(service *adherence.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/adherence", h.Report)
}

// Report answers GET /adherence?from=&to=&buckets=&medication_id=.
func (h *Handler) Report(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid from, want RFC3339", err))
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid to, want RFC3339", err))
		return
	}

	buckets := 0
	if raw := c.Query("buckets"); raw != "" {
		buckets, err = strconv.Atoi(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid buckets", err))
			return
		}
	}

	var medicationID *uuid.UUID
	if raw := c.Query("medication_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewBadRequest("invalid medication_id", err))
			return
		}
		medicationID = &id
	}

	report, err := h.service.Report(c.Request.Context(), userID, from, to, buckets, medicationID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}
