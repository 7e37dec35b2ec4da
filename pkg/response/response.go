// Package response writes the {status, message, data} JSON envelope shared by every endpoint.
package response

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-account/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body of every API response. Data is always present, null when empty.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success writes a success envelope with the given status code.
func Success(w http.ResponseWriter, r *http.Request, code int, message string, data interface{}) {
	render.Status(r, code)
	render.JSON(w, r, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Fail writes an error envelope with the given status code.
func Fail(w http.ResponseWriter, r *http.Request, code int, message string, data interface{}) {
	render.Status(r, code)
	render.JSON(w, r, Envelope{Status: StatusError, Message: message, Data: data})
}

// Error maps err to an error envelope. Structured errors keep their code and message;
// anything else is logged and reported as an internal error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == errors.ErrCodeInternal {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		Fail(w, r, http.StatusInternalServerError, errors.MsgInternal, nil)
		return
	}

	var data interface{}
	if fields := errors.GetFields(err); len(fields) > 0 {
		data = fields
	}
	Fail(w, r, errors.MapErrorCodeToHTTPStatus(code), errors.GetMessage(err), data)
}

// Decode reads a JSON request body into v. A missing or malformed body leaves v at
// its zero value so field validation reports what is missing.
func Decode[T any](r *http.Request) T {
	var v T
	if r.Body == nil {
		return v
	}
	var decoded T
	if err := render.DecodeJSON(r.Body, &decoded); err != nil {
		slog.Debug("Ignoring unreadable request body", "path", r.URL.Path, "err", err)
		return v
	}
	return decoded
}
