package domain

import (
	"fmt"
	"strings"
)

// Error codes recorded by validators. They double as message keys, so the
// HTTP layer can pass them straight through to clients for localization.
const (
	CodeInvalidType       = "error.general"
	CodeRequired          = "error.name"
	CodeNameAlreadyInUse  = "general.error.nameAlreadyInUse"
	CodeExceededMaxLength = "error.exceededMaxLengthOfField"

	CodeVoidReasonRequired = "general.voidReason.empty"
	CodeTagVoided          = "bedtag.error.voided"
)

// FieldError is a validation failure scoped to one field of the object.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// ObjectError is a validation failure that applies to the object as a whole.
type ObjectError struct {
	Code    string
	Message string
}

// Errors accumulates validation failures for a single object.
// The zero value is not usable; construct with NewErrors.
//
// Errors implements error so a populated collector can be returned from the
// service layer wrapped in ErrValidation:
//
//	if errs.HasErrors() {
//		return fmt.Errorf("%w: %w", ErrValidation, errs)
//	}
type Errors struct {
	object string
	global []ObjectError
	fields []FieldError
}

// NewErrors returns an empty collector for the named object ("bedTag").
func NewErrors(object string) *Errors {
	return &Errors{object: object}
}

// Object returns the name of the object being validated.
func (e *Errors) Object() string {
	return e.object
}

// Reject records a global error.
func (e *Errors) Reject(code, message string) {
	e.global = append(e.global, ObjectError{Code: code, Message: message})
}

// RejectValue records an error against field.
func (e *Errors) RejectValue(field, code, message string) {
	e.fields = append(e.fields, FieldError{Field: field, Code: code, Message: message})
}

// HasErrors reports whether any global or field error has been recorded.
func (e *Errors) HasErrors() bool {
	return len(e.global) > 0 || len(e.fields) > 0
}

// HasGlobalErrors reports whether any global error has been recorded.
func (e *Errors) HasGlobalErrors() bool {
	return len(e.global) > 0
}

// HasFieldErrors reports whether field has at least one error.
// An empty field name matches errors on any field.
func (e *Errors) HasFieldErrors(field string) bool {
	for _, fe := range e.fields {
		if field == "" || fe.Field == field {
			return true
		}
	}
	return false
}

// GlobalErrors returns a copy of the recorded global errors.
func (e *Errors) GlobalErrors() []ObjectError {
	return append([]ObjectError(nil), e.global...)
}

// FieldErrors returns the errors recorded against field, or all field
// errors when field is empty. The result is never nil.
func (e *Errors) FieldErrors(field string) []FieldError {
	out := []FieldError{}
	for _, fe := range e.fields {
		if field == "" || fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// FieldCodes returns the error codes recorded against field, in order.
func (e *Errors) FieldCodes(field string) []string {
	var codes []string
	for _, fe := range e.FieldErrors(field) {
		codes = append(codes, fe.Code)
	}
	return codes
}

// Error renders every recorded failure on one line,
// e.g. "bedTag: name: name already in use".
func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.global)+len(e.fields))
	for _, g := range e.global {
		parts = append(parts, messageOrCode(g.Message, g.Code))
	}
	for _, f := range e.fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, messageOrCode(f.Message, f.Code)))
	}
	if len(parts) == 0 {
		return e.object + ": no errors"
	}
	return e.object + ": " + strings.Join(parts, "; ")
}

func messageOrCode(message, code string) string {
	if message != "" {
		return message
	}
	return code
}
