package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered identity with credentials and roles.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Secret    string    `json:"-"`
	Roles     RoleSet   `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateParams holds the input for creating an account.
type CreateParams struct {
	Name     string
	Email    string
	Password string
	Roles    RoleSet
}

// UpdateParams holds the fields to change on an account.
// Nil fields are left unchanged; an empty Password leaves the secret untouched.
type UpdateParams struct {
	Name     *string
	Email    *string
	Password *string
	Roles    *RoleSet
}
