package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/trattoria-luca/service-booking/internal/application"
	"github.com/trattoria-luca/service-booking/internal/platform/response"
)

// DraftHandler serves the multi-step booking form.
type DraftHandler struct {
	forms      *application.FormService
	submission *application.SubmissionService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(forms *application.FormService, submission *application.SubmissionService) *DraftHandler {
	return &DraftHandler{forms: forms, submission: submission}
}

// RegisterRoutes registers the draft routes on the given router group.
func (h *DraftHandler) RegisterRoutes(r *gin.RouterGroup) {
	drafts := r.Group("/api/v1/drafts")
	{
		drafts.POST("", h.StartDraft)
		drafts.GET("/:sid", h.GetDraft)
		drafts.POST("/:sid/actions", h.ApplyAction)
		drafts.POST("/:sid/submit", h.Submit)
	}
}

// StartDraft handles POST /api/v1/drafts.
func (h *DraftHandler) StartDraft(c *gin.Context) {
	view, err := h.forms.Start(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// GetDraft handles GET /api/v1/drafts/:sid.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	view, err := h.forms.Get(c.Request.Context(), c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// ApplyAction handles POST /api/v1/drafts/:sid/actions.
func (h *DraftHandler) ApplyAction(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		response.BadRequest(c, "action body is required")
		return
	}

	view, err := h.forms.Apply(c.Request.Context(), c.Param("sid"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// Submit handles POST /api/v1/drafts/:sid/submit.
func (h *DraftHandler) Submit(c *gin.Context) {
	result, err := h.submission.Submit(c.Request.Context(), c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeSubmitResult(c, result)
}
