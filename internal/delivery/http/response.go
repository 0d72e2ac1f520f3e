package http

import (
	"encoding/json"
	"net/http"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/logging"
)

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// writeJSON encodes body before committing the status so an unencodable body
// still produces an envelope.
func writeJSON(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(errorEnvelope{
			StatusCode: status,
			Message:    "Something went wrong",
			Success:    false,
			Errors:     []string{},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(payload, '\n'))
}

// respond writes a success envelope. A nil data becomes an empty object.
func respond(w http.ResponseWriter, status int, data any, message string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// WriteError renders err as an error envelope. Causes of internal errors are
// logged, never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	details := appErr.Details
	if details == nil {
		details = []string{}
	}
	writeJSON(w, status, errorEnvelope{
		StatusCode: status,
		Message:    appErr.Message,
		Success:    false,
		Errors:     details,
	})
}
