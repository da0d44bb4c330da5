package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/koopa0/pilot/internal/log"
)

// safeErrorMessage is the only failure text ever shown to a client.
// Internal detail stays in the server log.
const safeErrorMessage = "Sorry, I encountered an error processing your request."

// isoNow returns the current UTC time in ISO-8601 format, matching the
// timestamp carried by every wire event.
func isoNow() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// writeJSON writes a JSON response with the given status code.
// If encoding fails after WriteHeader, the status is already sent; the error
// is logged and the response left as-is.
func writeJSON(w http.ResponseWriter, logger log.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encoding JSON response", "error", err)
	}
}

// ErrorResponse is the JSON error body of the REST surface.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, logger log.Logger, status int, errText, message string) {
	writeJSON(w, logger, status, ErrorResponse{Error: errText, Message: message})
}
