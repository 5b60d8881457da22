package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathUUID binds the named chi URL parameter as a UUID using the OpenAPI
// "simple" style. On failure it writes a 400 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid format for parameter "+name+": "+err.Error()))
		return uuid.Nil, false
	}
	return uuid.UUID(id), true
}

// listParams are the optional query parameters of GET /bed-tags.
type listParams struct {
	Q             *string
	Page          *int
	Limit         *int
	IncludeVoided *bool
}

// bindListParams binds the GET /bed-tags query string using the OpenAPI
// "form" style. On failure it writes a 400 and returns false.
func bindListParams(w http.ResponseWriter, r *http.Request) (listParams, bool) {
	var p listParams
	query := r.URL.Query()
	for _, param := range []struct {
		name string
		dst  any
	}{
		{"q", &p.Q},
		{"page", &p.Page},
		{"limit", &p.Limit},
		{"includeVoided", &p.IncludeVoided},
	} {
		if err := runtime.BindQueryParameter("form", true, false, param.name, query, param.dst); err != nil {
			writeJSON(w, http.StatusBadRequest, requestBody("invalid format for parameter "+param.name+": "+err.Error()))
			return listParams{}, false
		}
	}
	return p, true
}

// derefString returns the value pointed to by s, or "" if s is nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// derefBool returns the value pointed to by b, or false if b is nil.
func derefBool(b *bool) bool {
	return b != nil && *b
}
