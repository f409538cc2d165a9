// Package handlers contains the HTTP request handlers for the pipeline API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError maps an error to its HTTP status via the error code registry.
// Server-side failures are masked so internals never leak to callers.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}

	status := errors.HTTPStatusForCode(appErr.Code)
	resp := ErrorResponse{
		Code:    string(appErr.Code),
		Message: appErr.Message,
	}
	if status < http.StatusInternalServerError {
		resp.Detail = appErr.Detail
	} else {
		resp.Message = errors.ErrorCodeMessage[appErr.Code]
		if resp.Message == "" {
			resp.Message = "internal server error"
		}
	}
	writeJSON(w, status, resp)
}

// decodeJSON parses the request body into dst with a 1 MiB cap.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body")
	}
	return nil
}
