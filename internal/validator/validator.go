// Package validator implements the bed tag name rule: a tag's name must be
// present, within the configured length, and not already used by another
// active (non-voided) tag. Voided tags never block a name.
//
// The validator is stateless and read-only. It reports rule violations by
// appending to a domain.Errors collector; the returned Go error is reserved
// for a failing lookup, when the rule could not be evaluated at all.
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openbeds/bedtags/internal/domain"
)

// FieldName is the only field the bed tag rule inspects.
const FieldName = "name"

// Lookup is the read-only view of existing tags the validator consults.
// repo.BedTagRepo satisfies it.
type Lookup interface {
	// ListAll returns every stored tag, voided ones included.
	ListAll(ctx context.Context) ([]domain.BedTag, error)
}

// Policy decides whose expiration matters when a name collides.
type Policy int

const (
	// PolicyExistingActive rejects a duplicate name when the existing
	// same-named tag is active. The candidate's own state is ignored.
	PolicyExistingActive Policy = iota

	// PolicyBothActive rejects a duplicate name only when both the existing
	// tag and the candidate are active, so a voided tag may be saved under
	// a name that an active tag holds.
	PolicyBothActive
)

// ParsePolicy maps a configuration value to a Policy.
// The empty string selects PolicyExistingActive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "existing-active":
		return PolicyExistingActive, nil
	case "both-active":
		return PolicyBothActive, nil
	}
	return 0, fmt.Errorf("validator: unknown duplicate policy %q (valid: existing-active, both-active)", s)
}

// String returns the configuration spelling of p.
func (p Policy) String() string {
	switch p {
	case PolicyExistingActive:
		return "existing-active"
	case PolicyBothActive:
		return "both-active"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// BedTagValidator checks candidate bed tags against the stored set.
type BedTagValidator struct {
	lookup Lookup
	schema Schema
	policy Policy
}

// Option configures a BedTagValidator.
type Option func(*BedTagValidator)

// WithSchema replaces the default field-length schema.
func WithSchema(s Schema) Option {
	return func(v *BedTagValidator) { v.schema = s }
}

// WithPolicy selects the duplicate-name policy.
func WithPolicy(p Policy) Option {
	return func(v *BedTagValidator) { v.policy = p }
}

// New constructs a BedTagValidator that reads existing tags from lookup.
func New(lookup Lookup, opts ...Option) *BedTagValidator {
	v := &BedTagValidator{
		lookup: lookup,
		schema: DefaultSchema(),
		policy: PolicyExistingActive,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Policy returns the duplicate-name policy in effect.
func (v *BedTagValidator) Policy() Policy {
	return v.policy
}

// Schema returns the field-length schema in effect.
func (v *BedTagValidator) Schema() Schema {
	return v.schema
}

// Supports reports whether obj is a type Validate can check.
func (v *BedTagValidator) Supports(obj any) bool {
	_, ok := asBedTag(obj)
	return ok
}

// Validate checks obj and appends every rule violation to errs.
//
// Checks run in order: object type, required name, duplicate active name,
// name length. A wrong type or a missing name stops validation; the length
// check runs whether or not the name is a duplicate.
//
// The returned error is non-nil only when the lookup fails.
func (v *BedTagValidator) Validate(ctx context.Context, obj any, errs *domain.Errors) error {
	tag, ok := asBedTag(obj)
	if !ok {
		errs.Reject(domain.CodeInvalidType, "invalid object type for validation")
		return nil
	}

	if strings.TrimSpace(tag.Name) == "" {
		errs.RejectValue(FieldName, domain.CodeRequired, "name is required")
		return nil
	}

	if !errs.HasFieldErrors(FieldName) {
		taken, err := v.nameTaken(ctx, tag)
		if err != nil {
			return fmt.Errorf("validator.BedTagValidator.Validate: %w", err)
		}
		if taken {
			errs.RejectValue(FieldName, domain.CodeNameAlreadyInUse, "name already in use")
		}
	}

	v.schema.Check(errs, FieldName, tag.Name)
	return nil
}

// nameTaken reports whether an active tag other than candidate already uses
// candidate's name. Every same-named tag is considered, so a voided tag
// listed first cannot hide an active one.
//
// Names match under Unicode simple case folding. The bed_tags unique index
// compares Postgres lower(name), which folds fewer characters (under the C
// locale, U+212A KELVIN SIGN does not lower to "k"), so the validator may
// reject a name the index would allow.
func (v *BedTagValidator) nameTaken(ctx context.Context, candidate domain.BedTag) (bool, error) {
	if v.policy == PolicyBothActive && candidate.Expired() {
		return false, nil
	}

	existing, err := v.lookup.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("list bed tags: %w", err)
	}

	name := strings.TrimSpace(candidate.Name)
	for _, t := range existing {
		if !strings.EqualFold(strings.TrimSpace(t.Name), name) {
			continue
		}
		if t.SameIdentity(candidate) || t.Expired() {
			continue
		}
		return true, nil
	}
	return false, nil
}

func asBedTag(obj any) (domain.BedTag, bool) {
	switch t := obj.(type) {
	case domain.BedTag:
		return t, true
	case *domain.BedTag:
		if t == nil {
			return domain.BedTag{}, false
		}
		return *t, true
	}
	return domain.BedTag{}, false
}
