package auth

import (
	"sync"
)

// MockStore implements CredentialStore for testing purposes.
type MockStore struct {
	accounts map[string]*Account
	mu       sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store.
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]*Account),
	}
}

// Store saves credentials to the mock store.
func (m *MockStore) Store(account *Account) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if account == nil || account.Email == "" {
		return ErrInvalidCredentials
	}

	accountCopy := *account
	m.accounts[account.Email] = &accountCopy

	return nil
}

// Retrieve gets credentials from the mock store.
func (m *MockStore) Retrieve(email string) (*Account, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if email == "" {
		return nil, ErrInvalidCredentials
	}

	account, exists := m.accounts[email]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	accountCopy := *account
	return &accountCopy, nil
}

// List returns all stored accounts from the mock store.
func (m *MockStore) List() ([]*Account, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*Account
	for _, account := range m.accounts {
		accountCopy := *account
		accounts = append(accounts, &accountCopy)
	}

	return accounts, nil
}

// Delete removes credentials from the mock store.
func (m *MockStore) Delete(email string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if email == "" {
		return ErrInvalidCredentials
	}

	if _, exists := m.accounts[email]; !exists {
		return ErrCredentialsNotFound
	}

	delete(m.accounts, email)
	return nil
}

// Exists checks if credentials exist in the mock store.
func (m *MockStore) Exists(email string) bool {
	account, err := m.Retrieve(email)
	return err == nil && account != nil
}
