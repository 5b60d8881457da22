package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// ListBedTagsForBed handles GET /beds/{bedId}/tags.
func (s *Server) ListBedTagsForBed(w http.ResponseWriter, r *http.Request) {
	bedID, ok := pathUUID(w, r, "bedId")
	if !ok {
		return
	}

	tags, err := s.tags.ListByBed(r.Context(), bedID)
	if err != nil {
		s.writeServiceError(w, r, err, "bed not found")
		return
	}

	writeJSON(w, http.StatusOK, tagsToResponse(tags))
}

// AssignTagToBed handles POST /beds/{bedId}/tags.
func (s *Server) AssignTagToBed(w http.ResponseWriter, r *http.Request) {
	bedID, ok := pathUUID(w, r, "bedId")
	if !ok {
		return
	}
	var body AssignRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if uuid.UUID(body.TagId) == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, requestBody("tagId is required"))
		return
	}

	tag, err := s.tags.AssignToBed(r.Context(), bedID, uuid.UUID(body.TagId))
	if err != nil {
		s.writeServiceError(w, r, err, "bed tag not found")
		return
	}

	writeJSON(w, http.StatusCreated, tagToResponse(tag))
}

// UnassignTagFromBed handles DELETE /beds/{bedId}/tags/{tagId}.
func (s *Server) UnassignTagFromBed(w http.ResponseWriter, r *http.Request) {
	bedID, ok := pathUUID(w, r, "bedId")
	if !ok {
		return
	}
	tagID, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}

	if err := s.tags.UnassignFromBed(r.Context(), bedID, tagID); err != nil {
		s.writeServiceError(w, r, err, "tag not assigned to bed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
