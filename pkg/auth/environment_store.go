package auth

import (
	"os"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and holds at most the single account described by
// LISCRAPER_EMAIL and LISCRAPER_PASSWORD.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for the environment store.
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the environment. An empty email matches
// whatever account the environment describes.
func (e *EnvironmentStore) Retrieve(email string) (*Account, error) {
	envEmail := os.Getenv("LISCRAPER_EMAIL")
	envPassword := os.Getenv("LISCRAPER_PASSWORD")

	if envEmail == "" || envPassword == "" {
		return nil, ErrCredentialsNotFound
	}
	if email != "" && email != envEmail {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Email:    envEmail,
		Password: envPassword,
	}, nil
}

// List returns the environment account when one is configured.
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for the environment store.
func (e *EnvironmentStore) Delete(email string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials are present.
func (e *EnvironmentStore) Exists(email string) bool {
	account, err := e.Retrieve(email)
	return err == nil && account != nil
}
