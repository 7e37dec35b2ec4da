package account

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/tendant/simple-account/pkg/errors"
)

const (
	MaxNameLength     = 255
	MaxEmailLength    = 255
	MinPasswordLength = 6
	// bcrypt only accepts passwords of up to 72 bytes
	MaxPasswordBytes = 72
)

// Rule records failures for one constraint into fields.
type Rule func(fields errors.FieldErrors)

func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// RequiredMessage is the message for a missing field.
func RequiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", attribute(field))
}

// TakenMessage is the message for a value already used by another account.
func TakenMessage(field string) string {
	return fmt.Sprintf("The %s has already been taken.", attribute(field))
}

// CheckName validates a display name.
func CheckName(fields errors.FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		fields.Add(field, RequiredMessage(field))
		return
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		fields.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", attribute(field), MaxNameLength))
	}
}

// CheckEmail validates email syntax and length. Uniqueness is checked against the store separately.
func CheckEmail(fields errors.FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		fields.Add(field, RequiredMessage(field))
		return
	}
	if !govalidator.IsEmail(value) {
		fields.Add(field, fmt.Sprintf("The %s field must be a valid email address.", attribute(field)))
	}
	if utf8.RuneCountInString(value) > MaxEmailLength {
		fields.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", attribute(field), MaxEmailLength))
	}
}

// CheckPassword validates a plaintext password before hashing.
func CheckPassword(fields errors.FieldErrors, field, value string) {
	if value == "" {
		fields.Add(field, RequiredMessage(field))
		return
	}
	if utf8.RuneCountInString(value) < MinPasswordLength {
		fields.Add(field, fmt.Sprintf("The %s field must be at least %d characters.", attribute(field), MinPasswordLength))
	}
	if len(value) > MaxPasswordBytes {
		fields.Add(field, fmt.Sprintf("The %s field must not be greater than %d bytes.", attribute(field), MaxPasswordBytes))
	}
}

// Require fails field when present is false.
func Require(field string, present bool) Rule {
	return func(fields errors.FieldErrors) {
		if !present {
			fields.Add(field, RequiredMessage(field))
		}
	}
}

// RequireRoles fails "roles" unless a non-empty role set was supplied.
func RequireRoles(roles *RoleSet) Rule {
	return func(fields errors.FieldErrors) {
		if roles == nil || roles.Len() == 0 {
			fields.Add("roles", RequiredMessage("roles"))
		}
	}
}

// Different fails field when value equals the value of other.
func Different(field, value, other, otherValue string) Rule {
	return func(fields errors.FieldErrors) {
		if value != "" && value == otherValue {
			fields.Add(field, fmt.Sprintf("The %s field and %s must be different.", attribute(field), attribute(other)))
		}
	}
}

// Validate runs rules and returns a validation error when any failed.
func Validate(rules ...Rule) error {
	fields := errors.FieldErrors{}
	for _, rule := range rules {
		rule(fields)
	}
	if fields.Empty() {
		return nil
	}
	return errors.Validation(fields)
}
