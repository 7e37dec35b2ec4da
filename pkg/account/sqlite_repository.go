package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteAccountRepository implements AccountRepository over an embedded SQLite database.
type SQLiteAccountRepository struct {
	db *sql.DB
}

func NewSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func (r *SQLiteAccountRepository) Create(ctx context.Context, a Account) (Account, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, email, secret, roles, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Name, a.Email, a.Secret, a.Roles, toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("insert account: %w", err)
	}
	return r.FindByID(ctx, a.ID)
}

func (r *SQLiteAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, secret, roles, created_at, updated_at FROM accounts WHERE id = ?`, id.String())
	a, err := scanSQLiteAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("select account by id: %w", err)
	}
	return a, nil
}

func (r *SQLiteAccountRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, secret, roles, created_at, updated_at FROM accounts WHERE email = ?`, email)
	a, err := scanSQLiteAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("select account by email: %w", err)
	}
	return a, nil
}

func (r *SQLiteAccountRepository) Update(ctx context.Context, a Account) (Account, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, email = ?, secret = ?, roles = ?, updated_at = ? WHERE id = ?`,
		a.Name, a.Email, a.Secret, a.Roles, toMillis(a.UpdatedAt), a.ID.String(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return Account{}, ErrAccountNotFound
	}
	return r.FindByID(ctx, a.ID)
}

func (r *SQLiteAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, secret, roles, created_at, updated_at FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanSQLiteAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteAccount(row rowScanner) (Account, error) {
	var (
		a                    Account
		id                   string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &a.Name, &a.Email, &a.Secret, &a.Roles, &createdAt, &updatedAt); err != nil {
		return Account{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Account{}, fmt.Errorf("parse account id %q: %w", id, err)
	}
	a.ID = parsed
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}

// isSQLiteUniqueViolation reports a unique constraint failure on accounts.email.
// Other constraint failures, such as an id collision, are not duplicate emails.
func isSQLiteUniqueViolation(err error) bool {
	message := strings.ToLower(err.Error())
	if !strings.Contains(message, "accounts.email") {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(message, "unique constraint failed")
}

var _ AccountRepository = (*SQLiteAccountRepository)(nil)
