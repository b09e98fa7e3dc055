// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package resettoken issues and redeems one-time password reset tokens.
// Tokens live in a local BadgerDB with a TTL, so pending resets survive
// restarts without touching the main database.
package resettoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/serajapp/seraj/internal/logging"
)

// ErrInvalidToken covers unknown, expired, and already-redeemed tokens.
// Callers present them all the same way to avoid leaking token state.
var ErrInvalidToken = errors.New("invalid or expired reset token")

const keyPrefix = "reset:"

// Store is the BadgerDB-backed token store.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (or creates) the token database at path.
func Open(path string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logger is too chatty for this use

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{db: db, ttl: ttl}, nil
}

// InMemory opens an in-memory store. Used by tests and when no path is
// configured.
func InMemory(ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory token store: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Issue creates a fresh token bound to the user ID. Entries expire via
// Badger's TTL; redeemed tokens are deleted eagerly.
func (s *Store) Issue(userID string) (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+token), []byte(userID)).WithTTL(s.ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	logging.Debug().Str("user_id", userID).Msg("Reset token issued")
	return token, nil
}

// Redeem exchanges a token for its user ID and invalidates it. A token
// redeems exactly once.
func (s *Store) Redeem(token string) (string, error) {
	key := []byte(keyPrefix + token)
	var userID string

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}

		if err := item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		}); err != nil {
			return err
		}

		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("redeem reset token: %w", err)
	}
	return userID, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
