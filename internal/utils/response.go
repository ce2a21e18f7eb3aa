package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorMessage is one entry of ErrorResponse.ErrorMessages.
type ErrorMessage struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ErrorResponse is the single shape every failed request is answered with.
type ErrorResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	ErrorMessages []ErrorMessage `json:"errorMessages"`
	Stack         string         `json:"stack,omitempty"`
}

// SuccessResponse mirrors ErrorResponse for the happy path.
type SuccessResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Meta       any    `json:"meta,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondSuccess wraps data (and optional meta) in the success envelope.
func RespondSuccess(w http.ResponseWriter, status int, message string, data any, meta any) {
	RespondWithJSON(w, status, SuccessResponse{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Meta:       meta,
		Data:       data,
	})
}

// ErrorRenderer turns any error into the uniform error response. It is the
// only place error bodies are written.
type ErrorRenderer struct {
	ExposeStack bool
}

// NewErrorRenderer builds a renderer; stacks are exposed outside production.
func NewErrorRenderer(production bool) *ErrorRenderer {
	return &ErrorRenderer{ExposeStack: !production}
}

// HandleError normalizes err and writes it.
func (er *ErrorRenderer) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := NormalizeError(err, r.URL.Path, er.ExposeStack)

	fields := logrus.Fields{
		"status": status,
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	if status >= http.StatusInternalServerError {
		Logger.WithFields(fields).Error(body.Message)
	} else {
		Logger.WithFields(fields).Warn(body.Message)
	}

	RespondWithJSON(w, status, body)
}

// NotFoundHandler answers unmatched routes in the uniform shape.
func (er *ErrorRenderer) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusNotFound, ErrorResponse{
			Success: false,
			Message: "Not Found",
			ErrorMessages: []ErrorMessage{
				{Path: r.URL.Path, Message: "API Not Found"},
			},
		})
	})
}

// MethodNotAllowedHandler answers known paths hit with the wrong method.
func (er *ErrorRenderer) MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Success: false,
			Message: "Method Not Allowed",
			ErrorMessages: []ErrorMessage{
				{Path: r.URL.Path, Message: r.Method + " is not supported on this route"},
			},
		})
	})
}
