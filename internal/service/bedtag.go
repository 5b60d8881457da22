// Package service contains the business logic for the bed tags service.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbeds/bedtags/internal/domain"
	"github.com/openbeds/bedtags/internal/repo"
)

// objectName labels the error collector for every bed tag validation.
const objectName = "bedTag"

// Validator checks a candidate object and records rule violations in errs.
// validator.BedTagValidator satisfies it.
type Validator interface {
	Validate(ctx context.Context, obj any, errs *domain.Errors) error
}

// BedTagService implements business logic for bed tags. Every write that
// can change which tag holds a name (create, rename, unvoid) runs the
// validator first and refuses to persist when it reports errors.
type BedTagService struct {
	tags      repo.BedTagRepo
	validator Validator
	log       *slog.Logger
	now       func() time.Time
}

// NewBedTagService constructs a BedTagService. A nil logger discards logs.
func NewBedTagService(tags repo.BedTagRepo, v Validator, log *slog.Logger) *BedTagService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BedTagService{tags: tags, validator: v, log: log, now: time.Now}
}

// Check runs the validator against tag without persisting anything.
// The returned collector is empty when tag could be saved as-is.
func (s *BedTagService) Check(ctx context.Context, tag domain.BedTag) (*domain.Errors, error) {
	tag.Name = strings.TrimSpace(tag.Name)
	errs, err := s.validate(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("service.BedTagService.Check: %w", err)
	}
	return errs, nil
}

// Create validates and persists a new, active tag.
// Returns domain.ErrValidation wrapping *domain.Errors if the rule rejects it,
// or domain.ErrConflict if a concurrent save won the name first.
func (s *BedTagService) Create(ctx context.Context, tag domain.BedTag) (domain.BedTag, error) {
	tag.Name = strings.TrimSpace(tag.Name)
	tag.DateVoided = nil
	tag.VoidReason = ""

	if err := s.mustValidate(ctx, tag); err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Create: %w", err)
	}

	result, err := s.tags.Create(ctx, tag)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "bed tag created", "tag_id", result.ID, "name", result.Name)
	return result, nil
}

// GetByID returns a single tag, voided or not.
func (s *BedTagService) GetByID(ctx context.Context, id uuid.UUID) (domain.BedTag, error) {
	result, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of tags. The prefix is trimmed before matching.
func (s *BedTagService) List(ctx context.Context, f domain.BedTagFilter, p domain.PaginationParams) (domain.Page[domain.BedTag], error) {
	f.Prefix = strings.TrimSpace(f.Prefix)

	tags, total, err := s.tags.ListPaged(ctx, f, p)
	if err != nil {
		return domain.Page[domain.BedTag]{}, fmt.Errorf("service.BedTagService.List: %w", err)
	}
	if tags == nil {
		tags = []domain.BedTag{}
	}
	return domain.Page[domain.BedTag]{Items: tags, Total: total, PaginationParams: p}, nil
}

// Update renames an existing tag. The stored record keeps its identity and
// void state; only the name changes, and the new name is validated as if
// the stored tag were being re-saved.
func (s *BedTagService) Update(ctx context.Context, tag domain.BedTag) (domain.BedTag, error) {
	current, err := s.tags.GetByID(ctx, tag.ID)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Update: %w", err)
	}

	current.Name = strings.TrimSpace(tag.Name)
	if err := s.mustValidate(ctx, current); err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Update: %w", err)
	}

	result, err := s.tags.Update(ctx, current)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Update: %w", err)
	}
	s.log.InfoContext(ctx, "bed tag updated", "tag_id", result.ID, "name", result.Name)
	return result, nil
}

// Void retires a tag, freeing its name for a new active tag.
// A reason is required. Voiding an already voided tag is a no-op.
func (s *BedTagService) Void(ctx context.Context, id uuid.UUID, reason string) (domain.BedTag, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		errs := domain.NewErrors(objectName)
		errs.RejectValue("voidReason", domain.CodeVoidReasonRequired, "void reason is required")
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Void: %w: %w", domain.ErrValidation, errs)
	}

	current, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Void: %w", err)
	}
	if current.Expired() {
		return current, nil
	}

	result, err := s.tags.Void(ctx, id, s.now().UTC(), reason)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Void: %w", err)
	}
	s.log.InfoContext(ctx, "bed tag voided", "tag_id", result.ID, "name", result.Name, "reason", reason)
	return result, nil
}

// Unvoid restores a voided tag. The restored tag is validated as active, so
// it fails if another active tag has taken the name in the meantime.
// Unvoiding an active tag is a no-op.
func (s *BedTagService) Unvoid(ctx context.Context, id uuid.UUID) (domain.BedTag, error) {
	current, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Unvoid: %w", err)
	}
	if !current.Expired() {
		return current, nil
	}

	candidate := current
	candidate.DateVoided = nil
	candidate.VoidReason = ""
	if err := s.mustValidate(ctx, candidate); err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Unvoid: %w", err)
	}

	result, err := s.tags.Unvoid(ctx, id)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.Unvoid: %w", err)
	}
	s.log.InfoContext(ctx, "bed tag restored", "tag_id", result.ID, "name", result.Name)
	return result, nil
}

// Purge deletes a tag and its bed assignments permanently.
func (s *BedTagService) Purge(ctx context.Context, id uuid.UUID) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BedTagService.Purge: %w", err)
	}
	s.log.InfoContext(ctx, "bed tag purged", "tag_id", id)
	return nil
}

// AssignToBed links an active tag to a bed and returns the tag.
// Voided tags cannot be assigned.
func (s *BedTagService) AssignToBed(ctx context.Context, bedID, tagID uuid.UUID) (domain.BedTag, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.AssignToBed: %w", err)
	}
	if tag.Expired() {
		errs := domain.NewErrors(objectName)
		errs.Reject(domain.CodeTagVoided, "voided tags cannot be assigned to beds")
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.AssignToBed: %w: %w", domain.ErrValidation, errs)
	}

	if err := s.tags.AssignToBed(ctx, bedID, tagID); err != nil {
		return domain.BedTag{}, fmt.Errorf("service.BedTagService.AssignToBed: %w", err)
	}
	return tag, nil
}

// UnassignFromBed unlinks a tag from a bed.
// Returns domain.ErrNotFound if the tag is not linked to the bed.
func (s *BedTagService) UnassignFromBed(ctx context.Context, bedID, tagID uuid.UUID) error {
	if err := s.tags.UnassignFromBed(ctx, bedID, tagID); err != nil {
		return fmt.Errorf("service.BedTagService.UnassignFromBed: %w", err)
	}
	return nil
}

// ListByBed returns all tags linked to a bed, ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BedTagService) ListByBed(ctx context.Context, bedID uuid.UUID) ([]domain.BedTag, error) {
	tags, err := s.tags.ListByBed(ctx, bedID)
	if err != nil {
		return nil, fmt.Errorf("service.BedTagService.ListByBed: %w", err)
	}
	if tags == nil {
		return []domain.BedTag{}, nil
	}
	return tags, nil
}

func (s *BedTagService) validate(ctx context.Context, tag domain.BedTag) (*domain.Errors, error) {
	errs := domain.NewErrors(objectName)
	if err := s.validator.Validate(ctx, tag, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

// mustValidate returns ErrValidation wrapping the collector when the
// validator reports anything.
func (s *BedTagService) mustValidate(ctx context.Context, tag domain.BedTag) error {
	errs, err := s.validate(ctx, tag)
	if err != nil {
		return err
	}
	if errs.HasErrors() {
		s.log.DebugContext(ctx, "bed tag rejected", "name", tag.Name, "errors", errs.Error())
		return fmt.Errorf("%w: %w", domain.ErrValidation, errs)
	}
	return nil
}
