package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

// AccountRepository is the storage engine behind the credential store.
// Implementations enforce email uniqueness and report violations as ErrDuplicateEmail.
type AccountRepository interface {
	Create(ctx context.Context, a Account) (Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	Update(ctx context.Context, a Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Account, error)
}
