package validator

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/openbeds/bedtags/internal/domain"
)

// NameColumnWidth is the width of bed_tags.name. No schema may allow a
// longer name, or the database would reject what the validator accepted.
const NameColumnWidth = 50

// DefaultMaxNameLength is the name bound used when none is configured.
const DefaultMaxNameLength = NameColumnWidth

// Schema maps a field name to its maximum length in characters (runes).
// Fields absent from the schema, or mapped to a non-positive bound, are
// unbounded.
type Schema map[string]int

// DefaultSchema returns the bounds matching the bed_tags table.
func DefaultSchema() Schema {
	return Schema{FieldName: DefaultMaxNameLength}
}

// Max returns the bound for field and whether one is set.
func (s Schema) Max(field string) (int, bool) {
	n, ok := s[field]
	return n, ok && n > 0
}

// Check appends an error to errs when value is longer than field allows.
func (s Schema) Check(errs *domain.Errors, field, value string) {
	limit, ok := s.Max(field)
	if !ok {
		return
	}
	if utf8.RuneCountInString(value) > limit {
		errs.RejectValue(field, domain.CodeExceededMaxLength,
			fmt.Sprintf("%s must not exceed %d characters", field, limit))
	}
}

// Verify reports an error if the name bound is missing or wider than the
// bed_tags.name column.
func (s Schema) Verify() error {
	limit, ok := s.Max(FieldName)
	if !ok {
		return fmt.Errorf("validator: field %q must have a positive max length", FieldName)
	}
	if limit > NameColumnWidth {
		return fmt.Errorf("validator: field %q: max length %d exceeds the column width %d", FieldName, limit, NameColumnWidth)
	}
	return nil
}

// Fields returns the bounded field names in sorted order.
func (s Schema) Fields() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		if _, ok := s.Max(f); ok {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// schemaFile is the on-disk YAML layout:
//
//	fields:
//	  name: 50
type schemaFile struct {
	Fields map[string]int `yaml:"fields"`
}

// ParseSchema decodes a YAML schema document. Every bound must be positive.
// A document that omits name keeps DefaultMaxNameLength for it, and the
// result must pass Verify.
func ParseSchema(data []byte) (Schema, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("validator.ParseSchema: %w", err)
	}
	if len(f.Fields) == 0 {
		return nil, fmt.Errorf("validator.ParseSchema: no fields defined")
	}
	s := make(Schema, len(f.Fields))
	for field, limit := range f.Fields {
		if limit <= 0 {
			return nil, fmt.Errorf("validator.ParseSchema: field %q: max length must be positive, got %d", field, limit)
		}
		s[field] = limit
	}
	if _, ok := s[FieldName]; !ok {
		s[FieldName] = DefaultMaxNameLength
	}
	if err := s.Verify(); err != nil {
		return nil, fmt.Errorf("validator.ParseSchema: %w", err)
	}
	return s, nil
}

// LoadSchema reads and parses the YAML schema file at path.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validator.LoadSchema: %w", err)
	}
	return ParseSchema(data)
}

// MarshalYAML renders s in the same layout ParseSchema reads.
func (s Schema) MarshalYAML() (any, error) {
	return schemaFile{Fields: map[string]int(s)}, nil
}
