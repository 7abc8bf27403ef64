package web

// errors.go turns handler errors into JSON responses.
//
//  1. Handler encounters an error and calls respondError(w, r, err)
//  2. The status comes from statusFor, the message from core.MapError
//  3. The technical error is logged with the request ID for correlation
//  4. Clients get {"error","message","action","code"}; "error" carries the
//     technical text only for errors that map to a known code

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/limitdiff/internal/core"
	"github.com/JonMunkholm/limitdiff/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errNoFile is returned when a multipart field has no file.
var errNoFile = errors.New("no file provided")

// errFileTooLarge is returned when one uploaded table exceeds the limit.
var errFileTooLarge = errors.New("file too large")

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, errFileTooLarge), core.MapError(err).Code == "FILE001":
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyComparisons):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case core.IsUserFacing(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its user-facing JSON form.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	detail := msg.Message
	if core.IsUserFacing(err) {
		detail = err.Error()
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	writeJSON(w, status, ErrorResponse{
		Error:   detail,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
