// Package account holds the account entity, its role set, the admin role policy and
// the credential store built on top of pluggable repositories.
//
// # Overview
//
// The account package provides:
//   - Account, the single persisted entity, whose Secret never appears in JSON
//   - RoleSet, an immutable sorted set of role labels
//   - IsAuthorizedAdmin and HasRole, the pure role policy
//   - AccountService, which validates input, hashes passwords and enforces email uniqueness
//   - In-memory, file, PostgreSQL and SQLite repositories
//
// # Basic Usage
//
//	repo := account.NewInMemoryAccountRepository()
//	accounts := account.NewAccountService(repo, login.NewBcryptHasher(bcrypt.DefaultCost))
//
//	a, err := accounts.Create(ctx, account.CreateParams{
//		Name:     "John Doe",
//		Email:    "john@apextest.com",
//		Password: "password123",
//		Roles:    account.DefaultRoles(),
//	})
//
//	a, err = accounts.AssignRole(ctx, a.ID, account.AdminRole)
//	if account.IsAuthorizedAdmin(a) {
//		...
//	}
//
// # Repository Selection
//
//	repo, err := account.NewAccountRepository("sqlite", account.RepositoryConfig{SQLite: db})
//
// Every repository reports missing rows as ErrAccountNotFound and email collisions as
// ErrDuplicateEmail. AccountService turns a write-time ErrDuplicateEmail into the same
// validation error as the pre-write check.
package account
