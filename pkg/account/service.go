package account

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/errors"
)

// PasswordHasher is the one-way hash primitive used for account secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hashedPassword string) (bool, error)
}

// AccountService is the credential store: it validates input, hashes passwords and
// keeps email unique on top of an AccountRepository.
type AccountService struct {
	repo   AccountRepository
	hasher PasswordHasher
	now    func() time.Time
	newID  func() uuid.UUID
}

// Option configures an AccountService
type Option func(*AccountService)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) {
		s.now = now
	}
}

// WithIDGenerator overrides how new account ids are generated
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *AccountService) {
		s.newID = newID
	}
}

// NewAccountService creates a new account service
func NewAccountService(repo AccountRepository, hasher PasswordHasher, opts ...Option) *AccountService {
	s := &AccountService{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates params, hashes the password and stores a new account.
// Extra rules are evaluated together with the built-in field checks.
func (s *AccountService) Create(ctx context.Context, params CreateParams, rules ...Rule) (Account, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)

	fields := errors.FieldErrors{}
	CheckName(fields, "name", name)
	CheckEmail(fields, "email", email)
	CheckPassword(fields, "password", params.Password)
	for _, rule := range rules {
		rule(fields)
	}

	if !fields.Has("email") {
		taken, err := s.emailTaken(ctx, email, uuid.Nil)
		if err != nil {
			return Account{}, err
		}
		if taken {
			fields.Add("email", TakenMessage("email"))
		}
	}
	if !fields.Empty() {
		return Account{}, errors.Validation(fields)
	}

	secret, err := s.hasher.Hash(params.Password)
	if err != nil {
		return Account{}, errors.InternalWrap(err, "failed to hash password")
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, Account{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Secret:    secret,
		Roles:     params.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if stderrors.Is(err, ErrDuplicateEmail) {
			return Account{}, duplicateEmail()
		}
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("Account created", "id", created.ID, "roles", created.Roles.Labels())
	return created, nil
}

// FindByID returns the account with id or a NOT_FOUND error.
func (s *AccountService) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, ErrAccountNotFound) {
			return Account{}, errors.Wrap(err, errors.ErrCodeNotFound, errors.MsgUserNotFound)
		}
		return Account{}, fmt.Errorf("failed to find account: %w", err)
	}
	return a, nil
}

// FindByEmail returns the account registered under email or a NOT_FOUND error.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (Account, error) {
	a, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if stderrors.Is(err, ErrAccountNotFound) {
			return Account{}, errors.Wrap(err, errors.ErrCodeNotFound, errors.MsgUserNotFound)
		}
		return Account{}, fmt.Errorf("failed to find account: %w", err)
	}
	return a, nil
}

// Update applies params to the account with id.
// Checks run in order: existence, field validation, email uniqueness, persistence.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, params UpdateParams, rules ...Rule) (Account, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return Account{}, err
	}

	updated := current
	fields := errors.FieldErrors{}
	if params.Name != nil {
		updated.Name = strings.TrimSpace(*params.Name)
		CheckName(fields, "name", updated.Name)
	}
	if params.Email != nil {
		updated.Email = strings.TrimSpace(*params.Email)
		CheckEmail(fields, "email", updated.Email)
	}
	newPassword := params.Password != nil && *params.Password != ""
	if newPassword {
		CheckPassword(fields, "password", *params.Password)
	}
	if params.Roles != nil {
		updated.Roles = *params.Roles
	}
	for _, rule := range rules {
		rule(fields)
	}

	if params.Email != nil && !fields.Has("email") && updated.Email != current.Email {
		taken, err := s.emailTaken(ctx, updated.Email, id)
		if err != nil {
			return Account{}, err
		}
		if taken {
			fields.Add("email", TakenMessage("email"))
		}
	}
	if !fields.Empty() {
		return Account{}, errors.Validation(fields)
	}

	if newPassword {
		secret, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return Account{}, errors.InternalWrap(err, "failed to hash password")
		}
		updated.Secret = secret
	}

	saved, err := s.save(ctx, updated)
	if err != nil {
		return Account{}, err
	}
	slog.Info("Account updated", "id", saved.ID, "passwordChanged", newPassword)
	return saved, nil
}

// Delete removes the account with id.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, ErrAccountNotFound) {
			return errors.Wrap(err, errors.ErrCodeNotFound, errors.MsgUserNotFound)
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	slog.Info("Account deleted", "id", id)
	return nil
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// AssignRole adds role to the account. Nothing is written when the role is already present.
func (s *AccountService) AssignRole(ctx context.Context, id uuid.UUID, role string) (Account, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return Account{}, err
	}

	roles, added := current.Roles.With(role)
	if !added {
		return current, nil
	}
	current.Roles = roles

	saved, err := s.save(ctx, current)
	if err != nil {
		return Account{}, err
	}
	slog.Info("Role assigned", "id", id, "role", role)
	return saved, nil
}

// RemoveRole removes role from the account and always persists the result.
func (s *AccountService) RemoveRole(ctx context.Context, id uuid.UUID, role string) (Account, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	current.Roles = current.Roles.Without(role)

	saved, err := s.save(ctx, current)
	if err != nil {
		return Account{}, err
	}
	slog.Info("Role removed", "id", id, "role", role)
	return saved, nil
}

// VerifySecret reports whether password matches the account's stored secret.
func (s *AccountService) VerifySecret(a Account, password string) (bool, error) {
	ok, err := s.hasher.Verify(password, a.Secret)
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return ok, nil
}

func (s *AccountService) save(ctx context.Context, a Account) (Account, error) {
	a.UpdatedAt = s.now().UTC()
	saved, err := s.repo.Update(ctx, a)
	if err != nil {
		switch {
		case stderrors.Is(err, ErrAccountNotFound):
			return Account{}, errors.Wrap(err, errors.ErrCodeNotFound, errors.MsgUserNotFound)
		case stderrors.Is(err, ErrDuplicateEmail):
			return Account{}, duplicateEmail()
		}
		return Account{}, fmt.Errorf("failed to update account: %w", err)
	}
	return saved, nil
}

// emailTaken reports whether email belongs to an account other than except.
func (s *AccountService) emailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, ErrAccountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return existing.ID != except, nil
}

func duplicateEmail() error {
	return errors.Validation(nil).WithField("email", TakenMessage("email"))
}
