package domain

import (
	"time"

	"github.com/google/uuid"
)

// BedTag is a labeled category attached to beds (e.g. "Isolation", "ICU").
// Tags are soft-deleted: voiding sets DateVoided and keeps the row so that
// historical bed assignments still resolve. A zero ID means the tag has not
// been persisted yet.
type BedTag struct {
	ID         uuid.UUID
	Name       string
	DateVoided *time.Time // nil while the tag is active
	VoidReason string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expired reports whether the tag has been voided.
func (t BedTag) Expired() bool {
	return t.DateVoided != nil
}

// SameIdentity reports whether t and other refer to the same stored record.
// Two unsaved tags (both with a zero ID) are never the same record.
func (t BedTag) SameIdentity(other BedTag) bool {
	return t.ID != uuid.Nil && t.ID == other.ID
}

// BedTagAssignment links a tag to a bed. Beds are owned by the host
// platform; only their UUID is stored here.
type BedTagAssignment struct {
	BedID     uuid.UUID
	TagID     uuid.UUID
	CreatedAt time.Time
}
