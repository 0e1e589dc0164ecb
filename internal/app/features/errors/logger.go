package errors

import (
	"net/http"

	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and answers the client
// with a page or a JSON error, depending on what it asked for.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID), zap.String("role", u.Role))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

func (e *ErrorLogger) respond(w http.ResponseWriter, r *http.Request, status int, userMsg, backURL string) {
	if WantsJSON(r) {
		WriteJSONError(w, status, userMsg)
		return
	}
	switch status {
	case http.StatusForbidden:
		RenderForbidden(w, r, userMsg, backURL)
	case http.StatusBadGateway:
		RenderRetry(w, r, status, userMsg, backURL)
	default:
		RenderError(w, r, status, userMsg, backURL)
	}
}

// LogServerError logs at error level and answers 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogFetchError logs a failed data load and answers 502 with a retry link.
// An empty retryURL retries the current request.
func (e *ErrorLogger) LogFetchError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, retryURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusBadGateway, userMsg, retryURL)
}

// LogBadRequest logs at warn level and answers 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogForbidden logs at warn level and answers 403.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusForbidden, userMsg, backURL)
}

// LogNotFound logs at info level and answers 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Info(msg, e.fields(r, err)...)
	e.respond(w, r, http.StatusNotFound, userMsg, backURL)
}
