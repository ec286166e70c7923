package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/notify"
)

// insertPayload is the database webhook body.
type insertPayload struct {
	Type   string        `json:"type"`
	Table  string        `json:"table"`
	Schema string        `json:"schema"`
	Record notify.Record `json:"record"`
}

// NotifyHandler accepts row-insert webhooks and sends operator alerts.
type NotifyHandler struct {
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(dispatcher *notify.Dispatcher, logger *zap.Logger) *NotifyHandler {
	return &NotifyHandler{dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes registers the internal webhook route.
func (h *NotifyHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/internal/notify/bookings", h.BookingInserted)
}

// BookingInserted handles POST /internal/notify/bookings.
func (h *NotifyHandler) BookingInserted(c *gin.Context) {
	var payload insertPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	if payload.Type != "INSERT" || payload.Table != "bookings" {
		h.logger.Debug("skipping webhook", zap.String("type", payload.Type), zap.String("table", payload.Table))
		c.String(http.StatusOK, "Not a booking insert")
		return
	}

	err := h.dispatcher.Dispatch(c.Request.Context(), payload.Record)

	var (
		configErr *notify.ConfigError
		apiErr    *notify.APIError
	)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Telegram notification sent successfully",
			"booking_id": payload.Record.ID,
		})
	case errors.As(err, &configErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Telegram configuration not found",
			"bot_token_set": configErr.BotTokenSet(),
			"chat_id_set":   configErr.ChatIDSet(),
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Telegram API error",
			"status":  apiErr.Status,
			"details": apiErr.Body,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
