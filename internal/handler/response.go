package handler

import (
	"net/http"

	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusFor maps an application error to an HTTP status code.
func StatusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrPermission:
		return http.StatusForbidden
	case apperrors.ErrNoEligibleStaff:
		return http.StatusConflict
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
