package iam

import (
	"bytes"
	"encoding/json"

	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/errors"
)

// RolesField is the "roles" member of an admin request. It accepts any JSON value so
// a malformed value becomes a field error instead of rejecting the whole body.
type RolesField struct {
	present bool
	valid   bool
	set     account.RoleSet
}

// Roles builds a well-formed roles field from labels
func Roles(labels ...string) RolesField {
	return RolesField{present: true, valid: true, set: account.NewRoleSet(labels...)}
}

func (f *RolesField) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = RolesField{}
		return nil
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		*f = RolesField{present: true}
		return nil
	}
	*f = Roles(labels...)
	return nil
}

// Set returns the parsed role set, or nil when the field is missing or malformed
func (f RolesField) Set() *account.RoleSet {
	if !f.present || !f.valid {
		return nil
	}
	set := f.set
	return &set
}

// Rule requires a non-empty array of role labels
func (f RolesField) Rule() account.Rule {
	return func(fields errors.FieldErrors) {
		switch {
		case !f.present:
			fields.Add("roles", account.RequiredMessage("roles"))
		case !f.valid:
			fields.Add("roles", "The roles field must be an array.")
		case f.set.Len() == 0:
			fields.Add("roles", account.RequiredMessage("roles"))
		}
	}
}
