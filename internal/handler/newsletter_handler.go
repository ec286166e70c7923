package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trattoria-luca/service-booking/internal/application"
	"github.com/trattoria-luca/service-booking/internal/platform/response"
)

// NewsletterHandler handles newsletter subscriptions and session notices.
type NewsletterHandler struct {
	newsletter *application.NewsletterService
	notices    *application.NoticeService
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(newsletter *application.NewsletterService, notices *application.NoticeService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletter, notices: notices}
}

type subscribeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type unsubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// RegisterRoutes registers the newsletter and notice routes.
func (h *NewsletterHandler) RegisterRoutes(r *gin.RouterGroup) {
	newsletter := r.Group("/api/v1/newsletter")
	{
		newsletter.POST("/subscribe", h.Subscribe)
		newsletter.POST("/unsubscribe", h.Unsubscribe)
	}

	notices := r.Group("/api/v1/sessions/:sid/notices")
	{
		notices.GET("/:name", h.GetNotice)
		notices.POST("/:name/dismiss", h.DismissNotice)
	}
}

// Subscribe handles POST /api/v1/newsletter/subscribe.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.newsletter.Subscribe(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Unsubscribe handles POST /api/v1/newsletter/unsubscribe.
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.newsletter.Unsubscribe(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetNotice handles GET /api/v1/sessions/:sid/notices/:name.
func (h *NewsletterHandler) GetNotice(c *gin.Context) {
	result, err := h.notices.Status(c.Request.Context(), c.Param("sid"), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DismissNotice handles POST /api/v1/sessions/:sid/notices/:name/dismiss.
func (h *NewsletterHandler) DismissNotice(c *gin.Context) {
	result, err := h.notices.Dismiss(c.Request.Context(), c.Param("sid"), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
