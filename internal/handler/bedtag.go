package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openbeds/bedtags/internal/domain"
)

// ListBedTags handles GET /bed-tags.
// Supports ?q= (name prefix), ?includeVoided=, ?page= and ?limit=
// (defaults: page=1, limit=20, max=100).
func (s *Server) ListBedTags(w http.ResponseWriter, r *http.Request) {
	params, ok := bindListParams(w, r)
	if !ok {
		return
	}

	filter := domain.BedTagFilter{
		Prefix:        derefString(params.Q),
		IncludeVoided: derefBool(params.IncludeVoided),
	}
	page, err := s.tags.List(r.Context(), filter, domain.NewPaginationParams(params.Page, params.Limit))
	if err != nil {
		s.writeServiceError(w, r, err, "bed tags not found")
		return
	}

	writeJSON(w, http.StatusOK, BedTagList{
		Data: tagsToResponse(page.Items),
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      int(page.Total),
			TotalPages: page.TotalPages(),
		},
	})
}

// CreateBedTag handles POST /bed-tags.
func (s *Server) CreateBedTag(w http.ResponseWriter, r *http.Request) {
	var body BedTagRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.tags.Create(r.Context(), domain.BedTag{Name: body.Name})
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	w.Header().Set("Location", "/bed-tags/"+created.ID.String())
	writeJSON(w, http.StatusCreated, tagToResponse(created))
}

// ValidateBedTag handles POST /bed-tags/validate.
// It runs the name rule without saving and always answers 200 with the
// outcome, so forms can check a name as the user types.
func (s *Server) ValidateBedTag(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if !decodeBody(w, r, &body) {
		return
	}

	candidate := domain.BedTag{Name: body.Name}
	if body.Id != nil {
		candidate.ID = uuid.UUID(*body.Id)
	}
	if body.Voided {
		now := time.Now().UTC()
		candidate.DateVoided = &now
	}

	errs, err := s.tags.Check(r.Context(), candidate)
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	fields, global := fieldDetails(errs)
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  !errs.HasErrors(),
		Fields: fields,
		Global: global,
	})
}

// GetBedTag handles GET /bed-tags/{tagId}.
func (s *Server) GetBedTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}

	tag, err := s.tags.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// UpdateBedTag handles PUT /bed-tags/{tagId}.
func (s *Server) UpdateBedTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}
	var body BedTagRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.tags.Update(r.Context(), domain.BedTag{ID: id, Name: body.Name})
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	writeJSON(w, http.StatusOK, tagToResponse(updated))
}

// PurgeBedTag handles DELETE /bed-tags/{tagId}.
func (s *Server) PurgeBedTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}

	if err := s.tags.Purge(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VoidBedTag handles POST /bed-tags/{tagId}/void.
func (s *Server) VoidBedTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}
	var body VoidRequest
	if !decodeBody(w, r, &body) {
		return
	}

	tag, err := s.tags.Void(r.Context(), id, body.Reason)
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// UnvoidBedTag handles POST /bed-tags/{tagId}/unvoid.
func (s *Server) UnvoidBedTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}

	tag, err := s.tags.Unvoid(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	writeJSON(w, http.StatusOK, tagToResponse(tag))
}
