package reminder

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/middleware"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/service/reminder"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/httputil"
)

type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	reminders.GET("", h.List)
	reminders.POST("/materialize", h.Materialize)
	reminders.POST("/:id/take", h.Take)
	reminders.POST("/:id/snooze", h.Snooze)
}

func (h *Handler) Materialize(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req model.MaterializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	logs, err := h.service.MaterializeWindow(c.Request.Context(), userID, req.MedicationID, req.From, req.To)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, gin.H{"created": len(logs), "reminders": logs})
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	logs, err := h.service.List(c.Request.Context(), userID, filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, logs)
}

func (h *Handler) Take(c *gin.Context) {
	h.transition(c, h.service.Take)
}

func (h *Handler) Snooze(c *gin.Context) {
	h.transition(c, h.service.Snooze)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, userID, id uuid.UUID) (*model.ReminderLog, error)) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewBadRequest("invalid reminder ID", err))
		return
	}

	log, err := op(c.Request.Context(), userID, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, log)
}

func parseFilters(c *gin.Context) (*model.ReminderFilters, error) {
	filters := &model.ReminderFilters{}

	if raw := c.Query("medication_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.NewBadRequest("invalid medication_id filter", err)
		}
		filters.MedicationID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperrors.NewBadRequest("invalid from filter, want RFC3339", err)
		}
		filters.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, apperrors.NewBadRequest("invalid to filter, want RFC3339", err)
		}
		filters.To = &t
	}
	return filters, nil
}
