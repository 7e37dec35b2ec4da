package iam

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/login"
)

type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Roles    RolesField
}

// UpdateUserParams replaces an account's name, email and roles. A nil or empty
// Password keeps the current one.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
	Roles    RolesField
}

// IamService is the admin-only user management surface. Every operation re-checks
// that the caller is an admin, independently of any HTTP guard.
type IamService struct {
	accounts *account.AccountService
}

// NewIamService creates a new IamService
func NewIamService(accounts *account.AccountService) *IamService {
	return &IamService{accounts: accounts}
}

func authorize(caller login.Caller, action string) error {
	if !account.IsAuthorizedAdmin(caller.Account) {
		slog.Warn("Admin action denied", "action", action, "caller", caller.Account.ID, "roles", caller.Account.Roles.Labels())
		return errors.Forbidden()
	}
	return nil
}

// CreateUser creates an account with the given roles
func (s *IamService) CreateUser(ctx context.Context, caller login.Caller, params CreateUserParams) (account.Account, error) {
	if err := authorize(caller, "create user"); err != nil {
		return account.Account{}, err
	}

	var roles account.RoleSet
	if set := params.Roles.Set(); set != nil {
		roles = *set
	}
	a, err := s.accounts.Create(ctx, account.CreateParams{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
		Roles:    roles,
	}, params.Roles.Rule())
	if err != nil {
		return account.Account{}, err
	}
	slog.Info("User created by admin", "id", a.ID, "admin", caller.Account.ID)
	return a, nil
}

// FindUsers lists every account
func (s *IamService) FindUsers(ctx context.Context, caller login.Caller) ([]account.Account, error) {
	if err := authorize(caller, "list users"); err != nil {
		return nil, err
	}
	return s.accounts.List(ctx)
}

// UpdateUser replaces the account's fields. An unknown id is reported before any
// field validation.
func (s *IamService) UpdateUser(ctx context.Context, caller login.Caller, id uuid.UUID, params UpdateUserParams) (account.Account, error) {
	if err := authorize(caller, "update user"); err != nil {
		return account.Account{}, err
	}

	a, err := s.accounts.Update(ctx, id, account.UpdateParams{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
		Roles:    params.Roles.Set(),
	},
		account.Require("name", params.Name != nil),
		account.Require("email", params.Email != nil),
		params.Roles.Rule(),
	)
	if err != nil {
		return account.Account{}, err
	}
	slog.Info("User updated by admin", "id", a.ID, "admin", caller.Account.ID)
	return a, nil
}

// DeleteUser removes the account with id
func (s *IamService) DeleteUser(ctx context.Context, caller login.Caller, id uuid.UUID) error {
	if err := authorize(caller, "delete user"); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("User deleted by admin", "id", id, "admin", caller.Account.ID)
	return nil
}
