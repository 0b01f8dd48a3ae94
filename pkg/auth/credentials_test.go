package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	account := &Account{
		Email:    "user@example.com",
		Password: "hunter2",
	}

	require.NoError(t, store.Store(account))
	assert.True(t, store.Exists("user@example.com"))

	got, err := store.Retrieve("user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
	assert.Equal(t, "hunter2", got.Password)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, store.Delete("user@example.com"))
	assert.False(t, store.Exists("user@example.com"))

	_, err = store.Retrieve("user@example.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestMockStoreErrorInjection(t *testing.T) {
	store := NewMockStore()
	injected := errors.New("backend down")
	store.RetrieveError = injected

	_, err := store.Retrieve("user@example.com")
	assert.ErrorIs(t, err, injected)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("LISCRAPER_EMAIL", "env@example.com")
	t.Setenv("LISCRAPER_PASSWORD", "secret")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", account.Email)
	assert.Equal(t, "secret", account.Password)

	// Specific email must match the environment account
	_, err = store.Retrieve("other@example.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	// Read-only store
	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("env@example.com"), ErrStoreUnavailable)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestEnvironmentStoreEmpty(t *testing.T) {
	t.Setenv("LISCRAPER_EMAIL", "")
	t.Setenv("LISCRAPER_PASSWORD", "")

	store := NewEnvironmentStore()
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv("LISCRAPER_PASSPHRASE", "test-passphrase")

	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	account := &Account{
		Email:    "user@example.com",
		Password: "hunter2",
	}
	require.NoError(t, store.Store(account))

	// A fresh store over the same file and passphrase decrypts it
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	got, err := reopened.Retrieve("user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got.Password)

	accounts, err := reopened.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, reopened.Delete("user@example.com"))
	_, err = reopened.Retrieve("user@example.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv("LISCRAPER_PASSPHRASE", "correct")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Account{Email: "user@example.com", Password: "x"}))

	t.Setenv("LISCRAPER_PASSPHRASE", "wrong")
	bad, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = bad.Retrieve("user@example.com")
	assert.Error(t, err)
}

func TestManagerWithMockStores(t *testing.T) {
	primary := NewMockStore()
	fallback := NewMockStore()
	manager := &Manager{stores: []CredentialStore{primary, fallback}}

	account := &Account{Email: "user@example.com", Password: "hunter2"}
	require.NoError(t, manager.Store(account))
	assert.False(t, account.LastModified.IsZero())

	got, err := manager.Retrieve("user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got.Password)

	// Primary failing falls through to the fallback
	primary.StoreError = errors.New("keychain locked")
	primary.RetrieveError = errors.New("keychain locked")
	require.NoError(t, manager.Store(&Account{Email: "b@example.com", Password: "pw"}))

	got, err = manager.Retrieve("b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Password)

	require.NoError(t, manager.Delete("b@example.com"))
	_, err = manager.Retrieve("b@example.com")
	assert.Error(t, err)
}

func TestManagerStoreValidation(t *testing.T) {
	manager := &Manager{stores: []CredentialStore{NewMockStore()}}

	assert.Error(t, manager.Store(&Account{Password: "pw"}))
	assert.Error(t, manager.Store(&Account{Email: "user@example.com"}))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "", MaskPassword(""))
	assert.Equal(t, "********", MaskPassword("hunter2"))
}
