package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// Envelope is the JSON body every endpoint responds with.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
}

// ErrorData describes a failed request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Success: false, Error: &ErrorData{Code: code, Message: message}})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// Error maps an application error onto an HTTP status.
func Error(c *gin.Context, err error) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		conflictErr   *apperr.ConflictError
		stateErr      *apperr.InvalidStateError
	)
	switch {
	case errors.As(err, &validationErr):
		Fail(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationErr.Message)
	case errors.As(err, &notFoundErr):
		Fail(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error())
	case errors.As(err, &conflictErr):
		Fail(c, http.StatusConflict, "CONFLICT", conflictErr.Message)
	case errors.As(err, &stateErr):
		Fail(c, http.StatusConflict, "INVALID_STATE", stateErr.Error())
	default:
		Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
