package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/login"
)

func ptr(s string) *string { return &s }

type fixture struct {
	accounts *account.AccountService
	service  *ProfileService
	john     login.Caller
	jane     account.Account
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	accounts := account.NewAccountService(account.NewInMemoryAccountRepository(), login.NewBcryptHasher(4))

	john, err := accounts.Create(ctx, account.CreateParams{Name: "John Doe", Email: "john@apextest.com", Password: "password123", Roles: account.DefaultRoles()})
	require.NoError(t, err)
	jane, err := accounts.Create(ctx, account.CreateParams{Name: "Jane Doe", Email: "jane@apextest.com", Password: "password123", Roles: account.DefaultRoles()})
	require.NoError(t, err)

	return fixture{
		accounts: accounts,
		service:  NewProfileService(accounts),
		john:     login.Caller{Account: john, TokenID: "jti"},
		jane:     jane,
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("KeepOwnEmail", func(t *testing.T) {
		updated, err := f.service.UpdateProfile(ctx, f.john, UpdateProfileParams{Name: ptr("John Smith"), Email: ptr("john@apextest.com")})
		require.NoError(t, err)
		assert.Equal(t, "John Smith", updated.Name)

		ok, err := f.accounts.VerifySecret(updated, "password123")
		require.NoError(t, err)
		assert.True(t, ok, "password is untouched when not supplied")
	})

	t.Run("EmptyPasswordKeepsSecret", func(t *testing.T) {
		updated, err := f.service.UpdateProfile(ctx, f.john, UpdateProfileParams{Name: ptr("John Smith"), Email: ptr("john@apextest.com"), Password: ptr("")})
		require.NoError(t, err)
		ok, err := f.accounts.VerifySecret(updated, "password123")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OtherAccountsEmail", func(t *testing.T) {
		_, err := f.service.UpdateProfile(ctx, f.john, UpdateProfileParams{Name: ptr("John"), Email: ptr("jane@apextest.com")})
		require.Error(t, err)
		assert.Equal(t, []string{"The email has already been taken."}, errors.GetFields(err)["email"])
	})

	t.Run("RequiredFields", func(t *testing.T) {
		_, err := f.service.UpdateProfile(ctx, f.john, UpdateProfileParams{})
		require.Error(t, err)
		fields := errors.GetFields(err)
		assert.Equal(t, []string{"The name field is required."}, fields["name"])
		assert.Equal(t, []string{"The email field is required."}, fields["email"])
	})

	t.Run("ChangePassword", func(t *testing.T) {
		updated, err := f.service.UpdateProfile(ctx, f.john, UpdateProfileParams{Name: ptr("John"), Email: ptr("john@apextest.com"), Password: ptr("newpassword")})
		require.NoError(t, err)
		ok, err := f.accounts.VerifySecret(updated, "newpassword")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.UpdatePassword(ctx, f.john, UpdatePasswordParams{CurrentPassword: "password123", NewPassword: "newpassword"})
		require.NoError(t, err)

		a, err := f.accounts.FindByID(ctx, f.john.Account.ID)
		require.NoError(t, err)
		ok, _ := f.accounts.VerifySecret(a, "newpassword")
		assert.True(t, ok)
		ok, _ = f.accounts.VerifySecret(a, "password123")
		assert.False(t, ok)
	})

	t.Run("SamePassword", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.UpdatePassword(ctx, f.john, UpdatePasswordParams{CurrentPassword: "password123", NewPassword: "password123"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
		assert.Equal(t, []string{"The new password field and current password must be different."}, errors.GetFields(err)["new_password"])
	})

	t.Run("ValidationBeforeVerification", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.UpdatePassword(ctx, f.john, UpdatePasswordParams{CurrentPassword: "wrong-password", NewPassword: "123"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
		assert.Equal(t, []string{"The new password field must be at least 6 characters."}, errors.GetFields(err)["new_password"])
	})

	t.Run("MissingFields", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.UpdatePassword(ctx, f.john, UpdatePasswordParams{})
		fields := errors.GetFields(err)
		assert.Equal(t, []string{"The current password field is required."}, fields["current_password"])
		assert.Equal(t, []string{"The new password field is required."}, fields["new_password"])
	})

	t.Run("IncorrectCurrent", func(t *testing.T) {
		f := newFixture(t)
		err := f.service.UpdatePassword(ctx, f.john, UpdatePasswordParams{CurrentPassword: "wrong-password", NewPassword: "newpassword"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeIncorrectPassword))

		a, err := f.accounts.FindByID(ctx, f.john.Account.ID)
		require.NoError(t, err)
		ok, _ := f.accounts.VerifySecret(a, "password123")
		assert.True(t, ok, "secret is unchanged")
	})
}
