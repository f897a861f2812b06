package store

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robertmeta/calorie-cli/model"
	"golang.org/x/crypto/chacha20poly1305"
)

// Credentials keeps the single API credential sealed with a device key.
type Credentials struct {
	store *Store
	aead  cipher.AEAD
	log   *slog.Logger
}

// NewCredentials creates the credential store. key must be
// chacha20poly1305.KeySize bytes.
func NewCredentials(s *Store, key []byte, logger *slog.Logger) (*Credentials, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	return &Credentials{
		store: s,
		aead:  aead,
		log:   logger.With("component", "credentials"),
	}, nil
}

// Set seals and stores secret, replacing any previous one.
func (c *Credentials) Set(ctx context.Context, secret string) error {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return model.NewStorageError("store credential", fmt.Errorf("failed to generate nonce: %w", err))
	}
	sealed := c.aead.Seal(nil, nonce, []byte(secret), []byte(credentialSlot))

	_, err := c.store.db.ExecContext(ctx,
		`INSERT INTO secrets (slot, nonce, ciphertext, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET nonce = excluded.nonce, ciphertext = excluded.ciphertext, updated_at = excluded.updated_at`,
		credentialSlot, nonce, sealed, time.Now().Unix(),
	)
	if err != nil {
		return model.NewStorageError("store credential", err)
	}
	return nil
}

// Get returns the stored credential. Any failure to read or unseal it is
// logged and reported as absent.
func (c *Credentials) Get(ctx context.Context) (string, bool) {
	var nonce, sealed []byte
	err := c.store.db.QueryRowContext(ctx,
		"SELECT nonce, ciphertext FROM secrets WHERE slot = ?", credentialSlot,
	).Scan(&nonce, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		c.log.WarnContext(ctx, "credential unreadable", slog.String("error", err.Error()))
		return "", false
	}

	plain, err := c.aead.Open(nil, nonce, sealed, []byte(credentialSlot))
	if err != nil {
		c.log.WarnContext(ctx, "credential cannot be unsealed, was the device key replaced?",
			slog.String("error", err.Error()))
		return "", false
	}
	return string(plain), true
}

// Has reports whether a non-blank credential is stored.
func (c *Credentials) Has(ctx context.Context) bool {
	secret, ok := c.Get(ctx)
	return ok && strings.TrimSpace(secret) != ""
}

// Remove deletes the stored credential. Removing nothing is not an error.
func (c *Credentials) Remove(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM secrets WHERE slot = ?", credentialSlot); err != nil {
		return model.NewStorageError("remove credential", err)
	}
	return nil
}

// LoadOrCreateKey reads the device key at path, generating and saving a new
// one with owner-only permissions if none exists.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("device key %s has %d bytes, want %d", path, len(key), chacha20poly1305.KeySize)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read device key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate device key: %w", err)
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to save device key: %w", err)
	}
	return key, nil
}
