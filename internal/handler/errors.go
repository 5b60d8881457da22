package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openbeds/bedtags/internal/domain"
)

// writeJSON encodes body as the JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "bed tag not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure,
// carrying every field and global error the validator recorded.
func validationBody(err error) ErrorResponse {
	detail := ErrorDetail{Code: "validation_error", Message: "validation failed"}
	var errs *domain.Errors
	if errors.As(err, &errs) {
		detail.Fields, detail.Global = fieldDetails(errs)
		detail.Message = errs.Error()
	}
	return ErrorResponse{Error: detail}
}

// conflictBody returns an ErrorResponse for a write that lost a race on the
// active-name unique index. It reports the same field code the validator
// would have, so clients handle both paths alike.
func conflictBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{
		Code:    "conflict",
		Message: "name already in use",
		Fields: []FieldDetail{{
			Field:   "name",
			Code:    domain.CodeNameAlreadyInUse,
			Message: "name already in use",
		}},
	}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "bad_request", Message: message}}
}

// writeServiceError maps a service error onto an HTTP response.
// notFound is the message used for domain.ErrNotFound.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, conflictBody())
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}

// decodeBody reads a JSON request body into dst. It writes the error
// response itself and returns false when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeJSON(w, http.StatusBadRequest, requestBody("request body is required"))
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
				Code:    "request_too_large",
				Message: "request body too large",
			}})
			return false
		}
		writeJSON(w, http.StatusBadRequest, requestBody("invalid JSON body: "+err.Error()))
		return false
	}
	return true
}
