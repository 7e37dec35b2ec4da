package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const accountsFileName = "accounts.json"

// storedAccount is the on-disk form of Account. Unlike Account it keeps the secret.
type storedAccount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Secret    string    `json:"secret"`
	Roles     RoleSet   `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStored(a Account) storedAccount {
	return storedAccount(a)
}

func (s storedAccount) account() Account {
	return Account(s)
}

// fileAccountData represents all account data stored in the file
type fileAccountData struct {
	Accounts map[uuid.UUID]storedAccount `json:"accounts"`
}

// FileAccountRepository implements AccountRepository using file-based storage
type FileAccountRepository struct {
	dataDir string
	data    *fileAccountData
	mutex   sync.RWMutex
}

// NewFileAccountRepository creates a new file-based account repository
func NewFileAccountRepository(dataDir string) (*FileAccountRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileAccountRepository{
		dataDir: dataDir,
		data: &fileAccountData{
			Accounts: make(map[uuid.UUID]storedAccount),
		},
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileAccountRepository) Create(ctx context.Context, a Account) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.emailOwner(a.Email) != uuid.Nil {
		return Account{}, ErrDuplicateEmail
	}

	r.data.Accounts[a.ID] = toStored(a)
	if err := r.save(); err != nil {
		delete(r.data.Accounts, a.ID)
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}
	return a, nil
}

func (r *FileAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, ok := r.data.Accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return s.account(), nil
}

func (r *FileAccountRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id := r.emailOwner(email)
	if id == uuid.Nil {
		return Account{}, ErrAccountNotFound
	}
	return r.data.Accounts[id].account(), nil
}

func (r *FileAccountRepository) Update(ctx context.Context, a Account) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, ok := r.data.Accounts[a.ID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	if owner := r.emailOwner(a.Email); owner != uuid.Nil && owner != a.ID {
		return Account{}, ErrDuplicateEmail
	}

	r.data.Accounts[a.ID] = toStored(a)
	if err := r.save(); err != nil {
		r.data.Accounts[a.ID] = previous
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}
	return a, nil
}

func (r *FileAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, ok := r.data.Accounts[id]
	if !ok {
		return ErrAccountNotFound
	}

	delete(r.data.Accounts, id)
	if err := r.save(); err != nil {
		r.data.Accounts[id] = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (r *FileAccountRepository) List(ctx context.Context) ([]Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]Account, 0, len(r.data.Accounts))
	for _, s := range r.data.Accounts {
		out = append(out, s.account())
	}
	sortAccounts(out)
	return out, nil
}

// emailOwner returns the id holding email, or uuid.Nil. Caller holds the lock.
func (r *FileAccountRepository) emailOwner(email string) uuid.UUID {
	for id, s := range r.data.Accounts {
		if s.Email == email {
			return id
		}
	}
	return uuid.Nil
}

// load reads account data from file
func (r *FileAccountRepository) load() error {
	filePath := filepath.Join(r.dataDir, accountsFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, r.data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if r.data.Accounts == nil {
		r.data.Accounts = make(map[uuid.UUID]storedAccount)
	}
	return nil
}

// save writes account data to file atomically
func (r *FileAccountRepository) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, accountsFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, accountsFileName)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

var _ AccountRepository = (*FileAccountRepository)(nil)
