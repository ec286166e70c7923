package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/trattoria-luca/service-booking/internal/application"
	"github.com/trattoria-luca/service-booking/internal/platform/response"
)

// BookingHandler handles HTTP requests for persisted bookings.
type BookingHandler struct {
	service *application.SubmissionService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.SubmissionService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
// The operator group carries no authentication and must only be reachable
// from the private network.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/bookings/:id", h.GetBooking)
	r.POST("/api/v1/collaborations", h.CreateCollaboration)

	operator := r.Group("/api/v1/operator/bookings")
	{
		operator.POST("/:id/confirm", h.ConfirmBooking)
		operator.POST("/:id/cancel", h.CancelBooking)
	}
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateCollaboration handles POST /api/v1/collaborations.
func (h *BookingHandler) CreateCollaboration(c *gin.Context) {
	var req application.CollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SubmitCollaboration(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	writeSubmitResult(c, result)
}

// ConfirmBooking handles POST /api/v1/operator/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.ConfirmBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/operator/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// writeSubmitResult sends the uniform submission result as-is.
func writeSubmitResult(c *gin.Context, result *application.SubmitResult) {
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}
