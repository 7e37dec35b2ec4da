package login

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/revocation"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

// Caller is the authenticated account behind a request together with the token it presented.
type Caller struct {
	Account   account.Account
	TokenID   string
	ExpiresAt time.Time
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	User  account.Account `json:"user"`
	Token string          `json:"token"`
}

// LoginService verifies credentials, issues bearer tokens and resolves them back to callers.
type LoginService struct {
	accounts *account.AccountService
	tokens   tokengenerator.TokenGenerator
	revoked  revocation.Store
}

// NewLoginService creates a new login service
func NewLoginService(accounts *account.AccountService, tokens tokengenerator.TokenGenerator, revoked revocation.Store) *LoginService {
	return &LoginService{
		accounts: accounts,
		tokens:   tokens,
		revoked:  revoked,
	}
}

// Login validates the submitted credentials and issues a token.
// An unknown email and a wrong password fail the same way.
func (s *LoginService) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	email := strings.TrimSpace(params.Email)

	fields := errors.FieldErrors{}
	account.CheckEmail(fields, "email", email)
	account.CheckPassword(fields, "password", params.Password)
	if !fields.Empty() {
		return LoginResult{}, errors.Validation(fields)
	}

	a, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			slog.Warn("Login failed", "reason", "unknown email")
			return LoginResult{}, errors.Unauthorized()
		}
		return LoginResult{}, err
	}

	ok, err := s.accounts.VerifySecret(a, params.Password)
	if err != nil {
		slog.Error("Failed to verify password", "id", a.ID, "err", err)
		return LoginResult{}, errors.Unauthorized()
	}
	if !ok {
		slog.Warn("Login failed", "id", a.ID, "reason", "password mismatch")
		return LoginResult{}, errors.Unauthorized()
	}

	token, err := s.tokens.GenerateToken(a.ID.String(), map[string]interface{}{
		"roles": a.Roles.Labels(),
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("Login succeeded", "id", a.ID, "jti", token.ID)
	return LoginResult{User: a, Token: token.Value}, nil
}

// Logout revokes the token the caller authenticated with. Other tokens of the same account stay valid.
func (s *LoginService) Logout(ctx context.Context, caller Caller) error {
	if caller.TokenID == "" {
		return errors.Unauthenticated()
	}
	if err := s.revoked.Revoke(ctx, caller.TokenID, caller.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	slog.Info("Logout succeeded", "id", caller.Account.ID, "jti", caller.TokenID)
	return nil
}

// Profile returns the caller's account.
func (s *LoginService) Profile(ctx context.Context, caller Caller) (account.Account, error) {
	return caller.Account, nil
}

// Authenticate resolves a raw bearer token to its caller. Invalid, expired and revoked
// tokens, and tokens whose account no longer exists, are all unauthenticated.
func (s *LoginService) Authenticate(ctx context.Context, rawToken string) (Caller, error) {
	if rawToken == "" {
		return Caller{}, errors.Unauthenticated()
	}

	claims, err := s.tokens.ParseToken(rawToken)
	if err != nil {
		slog.Debug("Rejected bearer token", "err", err)
		return Caller{}, errors.Unauthenticated()
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Caller{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		slog.Debug("Rejected revoked token", "jti", claims.ID)
		return Caller{}, errors.Unauthenticated()
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Caller{}, errors.Unauthenticated()
	}
	a, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return Caller{}, errors.Unauthenticated()
		}
		return Caller{}, err
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return Caller{Account: a, TokenID: claims.ID, ExpiresAt: expiresAt}, nil
}
