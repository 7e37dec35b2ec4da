package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	msg := "configuration validation failed:"
	for _, err := range e {
		msg += fmt.Sprintf("\n  - %s", err.Error())
	}
	return msg
}

// Validator is a function that validates configuration and returns errors
type Validator func() ValidationErrors

// Validate runs multiple validators and combines their errors
func Validate(validators ...Validator) error {
	var allErrors ValidationErrors

	for _, validator := range validators {
		if errs := validator(); len(errs) > 0 {
			allErrors = append(allErrors, errs...)
		}
	}

	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

// Validate checks the settings each selected backend depends on
func (c Config) Validate() error {
	return Validate(
		c.Persistence.validate(c.Database),
		c.JWT.validate(c.Persistence),
		c.Revocation.validate,
		func() ValidationErrors {
			return CollectErrors(RequireOneOf("PASSWORD_HASHER", strings.ToLower(c.Password.Hasher), []string{"bcrypt", "argon2", "argon2id"}))
		},
		c.RateLimit.validate,
	)
}

func (p PersistenceConfig) validate(db DatabaseConfig) Validator {
	return func() ValidationErrors {
		errs := CollectErrors(RequireOneOf("PERSISTENCE_TYPE", p.Type, []string{"inmem", "memory", "file", "postgres", "sqlite"}))
		switch p.Type {
		case "file":
			errs = append(errs, CollectErrors(RequireNonEmpty("FILE_DATA_PATH", p.FileDataPath))...)
		case "sqlite":
			errs = append(errs, CollectErrors(RequireNonEmpty("SQLITE_PATH", p.SQLitePath))...)
		case "postgres":
			errs = append(errs, CollectErrors(
				RequireNonEmpty("ACCOUNT_PG_HOST", db.Host),
				RequireValidPort("ACCOUNT_PG_PORT", db.Port),
				RequireNonEmpty("ACCOUNT_PG_DATABASE", db.Database),
				RequireNonEmpty("ACCOUNT_PG_USER", db.User),
			)...)
		}
		return errs
	}
}

// Durable reports whether accounts outlive the process
func (p PersistenceConfig) Durable() bool {
	switch p.Type {
	case "file", "postgres", "sqlite":
		return true
	}
	return false
}

// The built-in secret is public, so durable stores must configure their own.
func (j JWTConfig) validate(p PersistenceConfig) Validator {
	return func() ValidationErrors {
		errs := CollectErrors(
			RequireNonEmpty("JWT_SECRET", j.Secret),
			RequireNonEmpty("JWT_ISSUER", j.Issuer),
			RequireNonEmpty("JWT_AUDIENCE", j.Audience),
		)
		if p.Durable() && j.UsesDefaultSecret() {
			errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: fmt.Sprintf("must be set when PERSISTENCE_TYPE is %s", p.Type)})
		}
		expiry, err := j.ParseAccessTokenExpiry()
		if err != nil {
			return append(errs, ValidationError{Field: "ACCESS_TOKEN_EXPIRY", Message: fmt.Sprintf("invalid duration %q", j.AccessTokenExpiry)})
		}
		return append(errs, CollectErrors(RequirePositiveDuration("ACCESS_TOKEN_EXPIRY", expiry))...)
	}
}

func (r RevocationConfig) validate() ValidationErrors {
	errs := CollectErrors(RequireOneOf("REVOCATION_BACKEND", r.Backend, []string{"inmem", "redis"}))
	if r.Backend == "redis" {
		errs = append(errs, CollectErrors(
			RequireNonEmpty("REDIS_ADDR", r.RedisAddr),
			RequireNonNegative("REDIS_DB", r.RedisDB),
		)...)
	}
	return errs
}

func (c RateLimitConfig) validate() ValidationErrors {
	if !c.Enabled {
		return nil
	}
	errs := CollectErrors(
		RequirePositive("LOGIN_RATE_LIMIT_CAPACITY", c.Capacity),
		RequirePositiveDuration("LOGIN_RATE_LIMIT_BUCKET_TTL", c.BucketTTL),
	)
	if c.PerMinute <= 0 {
		errs = append(errs, ValidationError{Field: "LOGIN_RATE_LIMIT_PER_MINUTE", Message: fmt.Sprintf("must be positive, got %v", c.PerMinute)})
	}
	return errs
}

// RequireNonEmpty validates that a string field is not empty
func RequireNonEmpty(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// RequirePositive validates that an integer field is positive
func RequirePositive(field string, value int) *ValidationError {
	if value <= 0 {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be positive, got %d", value),
		}
	}
	return nil
}

// RequireNonNegative validates that an integer field is non-negative
func RequireNonNegative(field string, value int) *ValidationError {
	if value < 0 {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be non-negative, got %d", value),
		}
	}
	return nil
}

// RequirePositiveDuration validates that a duration field is positive
func RequirePositiveDuration(field string, value time.Duration) *ValidationError {
	if value <= 0 {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be positive, got %v", value),
		}
	}
	return nil
}

// RequireValidPort validates that a port number is valid (1-65535)
func RequireValidPort(field string, value uint16) *ValidationError {
	if value == 0 {
		return &ValidationError{
			Field:   field,
			Message: "port must be between 1 and 65535",
		}
	}
	return nil
}

// RequireOneOf validates that a value is one of the allowed values
func RequireOneOf(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}

	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of %v, got %q", allowed, value),
	}
}

// CollectErrors is a helper to collect validation errors
// Returns nil if no errors, otherwise returns ValidationErrors
func CollectErrors(errors ...*ValidationError) ValidationErrors {
	var result ValidationErrors
	for _, err := range errors {
		if err != nil {
			result = append(result, *err)
		}
	}
	return result
}
