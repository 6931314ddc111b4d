// Package auth persists the dashboard's bearer token in the OS keychain.
package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "baselog"
	// tokenKey is the single durable entry; its absence means "logged out".
	tokenKey = "token"
)

// ErrNoToken is returned by LoadToken when nothing is persisted.
var ErrNoToken = errors.New("not authenticated. Please run 'baselog login' first")

// TokenStore defines the durable token operations.
// This allows us to mock the keyring in tests.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
}

// Keyring implements TokenStore using the OS keychain/credential manager.
type Keyring struct {
	Service string
}

// Default is the production store.
var Default TokenStore = &Keyring{Service: service}

func (k *Keyring) service() string {
	if k.Service == "" {
		return service
	}
	return k.Service
}

// SaveToken persists the token, replacing any previous one.
func (k *Keyring) SaveToken(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to save an empty token")
	}
	if err := keyring.Set(k.service(), tokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the persisted token or ErrNoToken.
func (k *Keyring) LoadToken() (string, error) {
	token, err := keyring.Get(k.service(), tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// DeleteToken removes the persisted token. Deleting nothing is not an error.
func (k *Keyring) DeleteToken() error {
	if err := keyring.Delete(k.service(), tokenKey); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
