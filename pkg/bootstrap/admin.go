package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/account"
)

const generatedPasswordBytes = 12

// AdminBootstrapConfig contains the first admin's identity (from ADMIN_NAME, ADMIN_EMAIL,
// ADMIN_PASSWORD). An empty Password is replaced by a generated one.
type AdminBootstrapConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// AdminBootstrapResult describes what BootstrapAdmin did
type AdminBootstrapResult struct {
	UserID      uuid.UUID
	Name        string
	Email       string
	Roles       []string
	Password    string // Only populated if auto-generated
	UserCreated bool

	PasswordFromEnv bool
}

// BootstrapAdmin creates the first admin account when the store holds no accounts.
// It does nothing when accounts already exist or no admin email is configured.
func BootstrapAdmin(ctx context.Context, accounts *account.AccountService, cfg AdminBootstrapConfig) (*AdminBootstrapResult, error) {
	email := strings.TrimSpace(cfg.AdminEmail)
	if email == "" {
		slog.Info("No admin email configured - skipping admin bootstrap")
		return &AdminBootstrapResult{}, nil
	}

	existing, err := accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check if users exist: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("Users already exist - skipping admin bootstrap", "count", len(existing))
		return &AdminBootstrapResult{}, nil
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}
	password := cfg.AdminPassword
	if password == "" {
		password, err = generatePassword()
		if err != nil {
			return nil, fmt.Errorf("failed to generate admin password: %w", err)
		}
	}

	admin, err := accounts.Create(ctx, account.CreateParams{
		Name:     name,
		Email:    email,
		Password: password,
		Roles:    account.NewRoleSet(account.AdminRole, account.UserRole),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	result := &AdminBootstrapResult{
		UserID:          admin.ID,
		Name:            admin.Name,
		Email:           admin.Email,
		Roles:           admin.Roles.Labels(),
		UserCreated:     true,
		PasswordFromEnv: cfg.AdminPassword != "",
	}
	if !result.PasswordFromEnv {
		result.Password = password
	}
	slog.Info("Admin bootstrap completed successfully", "user_id", admin.ID)
	return result, nil
}

func generatePassword() (string, error) {
	buf := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
