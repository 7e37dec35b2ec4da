package account

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RoleSet is an immutable set of role labels.
// The zero value is an empty set. Labels are kept sorted and unique.
type RoleSet struct {
	labels []string
}

// NewRoleSet builds a set from labels, dropping blanks and duplicates.
func NewRoleSet(labels ...string) RoleSet {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return RoleSet{labels: out}
}

// Has reports whether role is in the set.
func (s RoleSet) Has(role string) bool {
	i := sort.SearchStrings(s.labels, role)
	return i < len(s.labels) && s.labels[i] == role
}

// With returns the set with role added. added is false when role was already present.
func (s RoleSet) With(role string) (RoleSet, bool) {
	if s.Has(role) {
		return s, false
	}
	return NewRoleSet(append(s.Labels(), role)...), true
}

// Without returns the set with role removed.
func (s RoleSet) Without(role string) RoleSet {
	out := make([]string, 0, len(s.labels))
	for _, label := range s.labels {
		if label != role {
			out = append(out, label)
		}
	}
	return RoleSet{labels: out}
}

// Labels returns a copy of the labels in sorted order.
func (s RoleSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s RoleSet) Len() int {
	return len(s.labels)
}

func (s RoleSet) Equal(other RoleSet) bool {
	if len(s.labels) != len(other.labels) {
		return false
	}
	for i := range s.labels {
		if s.labels[i] != other.labels[i] {
			return false
		}
	}
	return true
}

func (s RoleSet) String() string {
	return "[" + strings.Join(s.labels, " ") + "]"
}

// MarshalJSON encodes the set as a JSON array, never null.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Labels())
}

// UnmarshalJSON decodes a JSON array, collapsing duplicates.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewRoleSet(labels...)
	return nil
}

// Value stores the set as a JSON text array.
func (s RoleSet) Value() (driver.Value, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan reads a JSON text array written by Value.
func (s *RoleSet) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case string:
		return s.UnmarshalJSON([]byte(v))
	case []byte:
		return s.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleSet", src)
	}
}
