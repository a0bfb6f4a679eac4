package apperr

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Write maps an error to its HTTP response. The internal cause is included
// only when exposeInternal is set (development mode); production clients see
// the message and code alone.
func Write(w http.ResponseWriter, err error, exposeInternal bool) {
	appErr := From(err)

	body := ErrorResponse{
		Message: appErr.Message,
		Code:    appErr.Code,
	}
	if exposeInternal && appErr.Internal != nil {
		body.Err = appErr.Internal.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(body)
}
