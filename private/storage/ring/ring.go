// Copyright 2024 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ring defines the persistent store that binds users to their keys.
//
// The store is append-only: keys and users are inserted but never updated or
// deleted. Rotating a key means inserting a new row.
package ring

import (
	"context"
	"errors"
	"io"

	"github.com/cckit/cck/pkg/keyring"
)

var (
	// ErrNotFound is returned if no row matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrStorage indicates a failure of the underlying database. The db
	// package errors are joined underneath.
	ErrStorage = errors.New("ring storage failure")
)

// UserWrite contains the methods that register users.
type UserWrite interface {
	InsertUser(ctx context.Context, user *keyring.User) error
}

// UserRead contains the user lookups.
type UserRead interface {
	// UserByID returns the user with the given id.
	UserByID(ctx context.Context, id string) (*keyring.User, error)
	// UserByEmail returns the earliest registered user with the email.
	UserByEmail(ctx context.Context, email string) (*keyring.User, error)
	// UsersByName returns all users with the name in registration order.
	UsersByName(ctx context.Context, name string) ([]*keyring.User, error)
}

// KeyWrite contains the methods that store keys for a user.
type KeyWrite interface {
	InsertPrivateKey(ctx context.Context, userID string, key *keyring.PrivateKey) error
	InsertPublicKey(ctx context.Context, userID string, key *keyring.PublicKey) error
}

// KeyRead contains the key lookups. Private keys are reconstructed from the
// stored private bytes; their public half and fingerprint are recomputed and
// checked. Public keys are returned as stored.
type KeyRead interface {
	PrivateKeys(ctx context.Context, userID string) ([]*keyring.PrivateKey, error)
	PrivateKeyByFingerprint(ctx context.Context,
		fp keyring.Fingerprint) (*keyring.PrivateKey, error)
	PrivateKey(ctx context.Context, userID string,
		fp keyring.Fingerprint) (*keyring.PrivateKey, error)
	PublicKeys(ctx context.Context, userID string) ([]*keyring.PublicKey, error)
	PublicKeyByFingerprint(ctx context.Context,
		fp keyring.Fingerprint) (*keyring.PublicKey, error)
	PublicKey(ctx context.Context, userID string,
		fp keyring.Fingerprint) (*keyring.PublicKey, error)
}

// ReadWrite is the full set of ring operations.
type ReadWrite interface {
	UserRead
	UserWrite
	KeyRead
	KeyWrite
}

// DB is a ring database.
type DB interface {
	ReadWrite
	io.Closer
}
