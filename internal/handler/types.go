package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/openbeds/bedtags/internal/domain"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// BedTag is the wire representation of domain.BedTag.
type BedTag struct {
	Id         openapi_types.UUID `json:"id"`
	Name       string             `json:"name"`
	Voided     bool               `json:"voided"`
	DateVoided *time.Time         `json:"dateVoided,omitempty"`
	VoidReason string             `json:"voidReason,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// BedTagList is the body of GET /bed-tags.
type BedTagList struct {
	Data       []BedTag   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// BedTagRequest is the body of POST /bed-tags and PUT /bed-tags/{tagId}.
type BedTagRequest struct {
	Name string `json:"name"`
}

// ValidateRequest is the body of POST /bed-tags/validate. Id identifies the
// stored tag being edited, if any; Voided checks the candidate as voided.
type ValidateRequest struct {
	Id     *openapi_types.UUID `json:"id,omitempty"`
	Name   string              `json:"name"`
	Voided bool                `json:"voided,omitempty"`
}

// ValidateResponse is the body returned by POST /bed-tags/validate.
type ValidateResponse struct {
	Valid  bool          `json:"valid"`
	Fields []FieldDetail `json:"fields"`
	Global []ErrorCode   `json:"global"`
}

// VoidRequest is the body of POST /bed-tags/{tagId}/void.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// AssignRequest is the body of POST /beds/{bedId}/tags.
type AssignRequest struct {
	TagId openapi_types.UUID `json:"tagId"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code, a message, and, for
// validation failures, the individual field and global errors.
type ErrorDetail struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Fields  []FieldDetail `json:"fields,omitempty"`
	Global  []ErrorCode   `json:"global,omitempty"`
}

// FieldDetail is one field-level validation failure.
type FieldDetail struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorCode is one object-level validation failure.
type ErrorCode struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// tagToResponse converts a domain.BedTag to its wire form.
func tagToResponse(t domain.BedTag) BedTag {
	return BedTag{
		Id:         openapi_types.UUID(t.ID),
		Name:       t.Name,
		Voided:     t.Expired(),
		DateVoided: t.DateVoided,
		VoidReason: t.VoidReason,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func tagsToResponse(tags []domain.BedTag) []BedTag {
	out := make([]BedTag, len(tags))
	for i, t := range tags {
		out[i] = tagToResponse(t)
	}
	return out
}

// fieldDetails flattens a collector into wire form. Both slices are non-nil.
func fieldDetails(errs *domain.Errors) ([]FieldDetail, []ErrorCode) {
	fields := []FieldDetail{}
	global := []ErrorCode{}
	if errs == nil {
		return fields, global
	}
	for _, fe := range errs.FieldErrors("") {
		fields = append(fields, FieldDetail{Field: fe.Field, Code: fe.Code, Message: fe.Message})
	}
	for _, ge := range errs.GlobalErrors() {
		global = append(global, ErrorCode{Code: ge.Code, Message: ge.Message})
	}
	return fields, global
}
