package changelog

import (
	"encoding/json"
	"fmt"
)

// ChangeType is the category a commit is filed under.
type ChangeType int

const (
	Unclassified ChangeType = iota
	Ignored
	Added
	Changed
	Deprecated
	Removed
	Fixed
	Security
)

var changeTypeNames = map[ChangeType]string{
	Unclassified: "unclassified",
	Ignored:      "ignored",
	Added:        "added",
	Changed:      "changed",
	Deprecated:   "deprecated",
	Removed:      "removed",
	Fixed:        "fixed",
	Security:     "security",
}

// String returns the lowercase category name (e.g. "added").
func (t ChangeType) String() string {
	if name, ok := changeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ChangeType(%d)", int(t))
}

// IsStandard reports whether t is one of the six Keep a Changelog categories.
func (t ChangeType) IsStandard() bool {
	return t >= Added && t <= Security
}

// StandardTypes returns the Keep a Changelog categories in rendering order.
func StandardTypes() []ChangeType {
	return []ChangeType{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// AllTypes returns every category in section order: the catch-alls first,
// then the standard categories.
func AllTypes() []ChangeType {
	return append([]ChangeType{Ignored, Unclassified}, StandardTypes()...)
}

// Commit is a single record from the history query. Subject drives
// classification; every other field is carried through untouched for display.
type Commit struct {
	Subject string
	Fields  map[string]any
}

// NewCommit builds a commit from a subject and optional pass-through fields.
func NewCommit(subject string, fields map[string]any) Commit {
	return Commit{Subject: subject, Fields: fields}
}

// Field returns a pass-through field formatted as text, or "" when absent.
func (c Commit) Field(name string) string {
	v, ok := c.Fields[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Data returns the commit as a flat map including the subject, suitable as
// template context.
func (c Commit) Data() map[string]any {
	data := make(map[string]any, len(c.Fields)+1)
	for k, v := range c.Fields {
		data[k] = v
	}
	data["subject"] = c.Subject
	return data
}

// MarshalJSON writes the commit as a single flat JSON object.
func (c Commit) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Data())
}

// UnmarshalJSON reads a flat JSON object. The subject field is required and
// must be a string; all other fields are kept as-is.
func (c *Commit) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("commit record must be a JSON object")
	}

	subject, ok := raw["subject"]
	if !ok {
		return fmt.Errorf("missing required field %q", "subject")
	}
	s, ok := subject.(string)
	if !ok {
		return fmt.Errorf("field %q must be a string, got %T", "subject", subject)
	}
	delete(raw, "subject")

	c.Subject = s
	c.Fields = raw
	return nil
}

// ChangeSet maps each category to the commits filed under it, in arrival
// order. A category is only present as a key if at least one commit maps to it.
type ChangeSet map[ChangeType][]Commit

// Has reports whether at least one commit was filed under t.
func (s ChangeSet) Has(t ChangeType) bool {
	return len(s[t]) > 0
}

// HasAny reports whether any of the given categories is present.
func (s ChangeSet) HasAny(types ...ChangeType) bool {
	for _, t := range types {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// HasStandard reports whether any Keep a Changelog category is present.
func (s ChangeSet) HasStandard() bool {
	return s.HasAny(StandardTypes()...)
}

// Count returns the total number of commits across all categories.
func (s ChangeSet) Count() int {
	count := 0
	for _, commits := range s {
		count += len(commits)
	}
	return count
}

// Types returns the present categories in section order.
func (s ChangeSet) Types() []ChangeType {
	var types []ChangeType
	for _, t := range AllTypes() {
		if s.Has(t) {
			types = append(types, t)
		}
	}
	return types
}
