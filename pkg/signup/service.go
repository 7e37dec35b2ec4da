package signup

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-account/pkg/account"
)

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// SignupService handles public registration
type SignupService struct {
	accounts *account.AccountService
}

// NewSignupService creates a new SignupService
func NewSignupService(accounts *account.AccountService) *SignupService {
	return &SignupService{accounts: accounts}
}

// Register creates an account holding only the default "user" role.
func (s *SignupService) Register(ctx context.Context, params RegisterParams) (account.Account, error) {
	a, err := s.accounts.Create(ctx, account.CreateParams{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
		Roles:    account.DefaultRoles(),
	})
	if err != nil {
		return account.Account{}, err
	}
	slog.Info("User registered", "id", a.ID)
	return a, nil
}
