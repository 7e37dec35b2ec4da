package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/database"
)

func sampleAccount(email string, createdAt time.Time) Account {
	return Account{
		ID:        uuid.New(),
		Name:      "Sample " + email,
		Email:     email,
		Secret:    "hashed:password123",
		Roles:     NewRoleSet("user"),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// testRepositoryContract exercises the behaviour every AccountRepository must share.
func testRepositoryContract(t *testing.T, newRepo func(t *testing.T) AccountRepository) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("CreateAndFind", func(t *testing.T) {
		repo := newRepo(t)
		a := sampleAccount("find@example.com", base)

		created, err := repo.Create(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, a.ID, created.ID)

		byID, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Email, byID.Email)
		assert.Equal(t, a.Secret, byID.Secret)
		assert.Equal(t, []string{"user"}, byID.Roles.Labels())
		assert.True(t, a.CreatedAt.Equal(byID.CreatedAt))

		byEmail, err := repo.FindByEmail(ctx, a.Email)
		require.NoError(t, err)
		assert.Equal(t, a.ID, byEmail.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = repo.FindByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = repo.Update(ctx, sampleAccount("missing@example.com", base))
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), ErrAccountNotFound)
	})

	t.Run("DuplicateEmailOnCreate", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, sampleAccount("dup@example.com", base))
		require.NoError(t, err)

		_, err = repo.Create(ctx, sampleAccount("dup@example.com", base))
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("DuplicateEmailOnUpdate", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, sampleAccount("first@example.com", base))
		require.NoError(t, err)
		second, err := repo.Create(ctx, sampleAccount("second@example.com", base))
		require.NoError(t, err)

		second.Email = "first@example.com"
		_, err = repo.Update(ctx, second)
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("Update", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.Create(ctx, sampleAccount("before@example.com", base))
		require.NoError(t, err)

		a.Name = "After"
		a.Email = "after@example.com"
		a.Roles = NewRoleSet("admin", "user")
		a.UpdatedAt = base.Add(time.Hour)
		updated, err := repo.Update(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, []string{"admin", "user"}, updated.Roles.Labels())
		assert.True(t, base.Add(time.Hour).Equal(updated.UpdatedAt))

		_, err = repo.FindByEmail(ctx, "before@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		_, err = repo.FindByEmail(ctx, "after@example.com")
		assert.NoError(t, err)
	})

	t.Run("DeleteAndList", func(t *testing.T) {
		repo := newRepo(t)
		accounts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)

		first, err := repo.Create(ctx, sampleAccount("one@example.com", base))
		require.NoError(t, err)
		second, err := repo.Create(ctx, sampleAccount("two@example.com", base.Add(time.Minute)))
		require.NoError(t, err)

		accounts, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, first.ID, accounts[0].ID)
		assert.Equal(t, second.ID, accounts[1].ID)

		require.NoError(t, repo.Delete(ctx, first.ID))
		accounts, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, second.ID, accounts[0].ID)
	})
}

func TestInMemoryAccountRepository(t *testing.T) {
	testRepositoryContract(t, func(t *testing.T) AccountRepository {
		return NewInMemoryAccountRepository()
	})
}

func TestFileAccountRepository(t *testing.T) {
	testRepositoryContract(t, func(t *testing.T) AccountRepository {
		repo, err := NewFileAccountRepository(t.TempDir())
		require.NoError(t, err)
		return repo
	})
}

func TestFileAccountRepository_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	repo, err := NewFileAccountRepository(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	a := sampleAccount("persist@example.com", time.Now().UTC())
	_, err = repo.Create(ctx, a)
	require.NoError(t, err)

	reopened, err := NewFileAccountRepository(dir)
	require.NoError(t, err)
	loaded, err := reopened.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Secret, loaded.Secret, "the secret must survive a restart")
	assert.Equal(t, a.Roles.Labels(), loaded.Roles.Labels())
}

func TestSQLiteAccountRepository(t *testing.T) {
	testRepositoryContract(t, func(t *testing.T) AccountRepository {
		db, err := database.OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		return NewSQLiteAccountRepository(db)
	})
}

func TestNewAccountRepository(t *testing.T) {
	repo, err := NewAccountRepository(PersistenceInMemory, RepositoryConfig{})
	require.NoError(t, err)
	assert.IsType(t, &InMemoryAccountRepository{}, repo)

	repo, err = NewAccountRepository(PersistenceFile, RepositoryConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileAccountRepository{}, repo)

	_, err = NewAccountRepository(PersistenceFile, RepositoryConfig{})
	assert.Error(t, err)
	_, err = NewAccountRepository(PersistencePostgres, RepositoryConfig{})
	assert.Error(t, err)
	_, err = NewAccountRepository(PersistenceSQLite, RepositoryConfig{})
	assert.Error(t, err)
	_, err = NewAccountRepository("mongo", RepositoryConfig{})
	assert.Error(t, err)
}
