package profile

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/login"
)

// UpdateProfileParams carries a self-service profile change. Name and Email are
// required; a nil or empty Password keeps the current one.
type UpdateProfileParams struct {
	Name     *string
	Email    *string
	Password *string
}

type UpdatePasswordParams struct {
	CurrentPassword string
	NewPassword     string
}

// ProfileService lets an authenticated caller change their own account
type ProfileService struct {
	accounts *account.AccountService
}

// NewProfileService creates a new ProfileService
func NewProfileService(accounts *account.AccountService) *ProfileService {
	return &ProfileService{accounts: accounts}
}

// UpdateProfile changes the caller's name, email and optionally password.
// The email may stay the caller's own; any other account's email is rejected.
func (s *ProfileService) UpdateProfile(ctx context.Context, caller login.Caller, params UpdateProfileParams) (account.Account, error) {
	updated, err := s.accounts.Update(ctx, caller.Account.ID, account.UpdateParams{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
	},
		account.Require("name", params.Name != nil),
		account.Require("email", params.Email != nil),
	)
	if err != nil {
		return account.Account{}, err
	}
	slog.Info("Profile updated", "id", updated.ID)
	return updated, nil
}

// UpdatePassword rotates the caller's password after checking the current one.
// Field validation runs before the current password is verified.
func (s *ProfileService) UpdatePassword(ctx context.Context, caller login.Caller, params UpdatePasswordParams) error {
	fields := errors.FieldErrors{}
	account.CheckPassword(fields, "current_password", params.CurrentPassword)
	account.CheckPassword(fields, "new_password", params.NewPassword)
	account.Different("new_password", params.NewPassword, "current_password", params.CurrentPassword)(fields)
	if !fields.Empty() {
		return errors.Validation(fields)
	}

	current, err := s.accounts.FindByID(ctx, caller.Account.ID)
	if err != nil {
		return err
	}
	ok, err := s.accounts.VerifySecret(current, params.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("Password change rejected", "id", current.ID, "reason", "current password mismatch")
		return errors.IncorrectPassword()
	}

	newPassword := params.NewPassword
	if _, err := s.accounts.Update(ctx, current.ID, account.UpdateParams{Password: &newPassword}); err != nil {
		return err
	}
	slog.Info("Password updated", "id", current.ID)
	return nil
}
