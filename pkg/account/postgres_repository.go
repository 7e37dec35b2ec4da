package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PgxQuerier is the subset of *pgxpool.Pool used by the postgres repository.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresAccountRepository implements AccountRepository over PostgreSQL.
type PostgresAccountRepository struct {
	db PgxQuerier
}

func NewPostgresAccountRepository(db PgxQuerier) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, name, email, secret, roles, created_at, updated_at`

func (r *PostgresAccountRepository) Create(ctx context.Context, a Account) (Account, error) {
	roles, err := json.Marshal(a.Roles)
	if err != nil {
		return Account{}, fmt.Errorf("encode roles: %w", err)
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns
	row := r.db.QueryRow(ctx, query, a.ID, a.Name, a.Email, a.Secret, string(roles), a.CreatedAt, a.UpdatedAt)
	created, err := scanPgAccount(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanPgAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("select account by id: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	a, err := scanPgAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("select account by email: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, a Account) (Account, error) {
	roles, err := json.Marshal(a.Roles)
	if err != nil {
		return Account{}, fmt.Errorf("encode roles: %w", err)
	}

	query := `
		UPDATE accounts
		SET name = $2, email = $3, secret = $4, roles = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + accountColumns
	updated, err := scanPgAccount(r.db.QueryRow(ctx, query, a.ID, a.Name, a.Email, a.Secret, string(roles), a.UpdatedAt))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return Account{}, ErrAccountNotFound
		case isPgUniqueViolation(err):
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanPgAccount(rows)
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

func scanPgAccount(row pgx.Row) (Account, error) {
	var (
		a     Account
		roles []byte
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Secret, &roles, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	if err := a.Roles.UnmarshalJSON(roles); err != nil {
		return Account{}, fmt.Errorf("decode roles: %w", err)
	}
	return a, nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

var _ AccountRepository = (*PostgresAccountRepository)(nil)
