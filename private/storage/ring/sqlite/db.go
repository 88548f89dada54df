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

// Package sqlite implements the ring on top of an SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"sync"

	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/storage/db"
	"github.com/cckit/cck/private/storage/ring"
)

var _ ring.DB = (*Backend)(nil)

// Backend is the SQLite ring backend.
type Backend struct {
	db *db.Sqlite
	*executor
}

// New returns a new SQLite backend opening a database at the given path. If
// no database exists a new database is created. If the schema version of the
// stored database is different from the one in schema.go, an error is
// returned. Opening an existing ring leaves its rows untouched.
func New(path string) (*Backend, error) {
	return open(path, nil)
}

// NewInMemory returns a backend on a fresh in-memory database. The database
// is discarded on Close.
func NewInMemory() (*Backend, error) {
	return open(db.UniqueMemoryName("ring"), &db.SqliteConfig{InMemory: true})
}

func open(path string, cfg *db.SqliteConfig) (*Backend, error) {
	sdb, err := db.NewSqlite(path, cfg)
	if err != nil {
		return nil, serrors.JoinNoStack(ring.ErrStorage, err)
	}
	if err := sdb.Setup(Schema, SchemaVersion); err != nil {
		_ = sdb.Close()
		return nil, serrors.JoinNoStack(ring.ErrStorage, err, "path", path)
	}
	return &Backend{
		executor: &executor{db: sdb},
		db:       sdb,
	}, nil
}

// SetMaxIdleConns sets the maximum number of idle connections.
func (b *Backend) SetMaxIdleConns(maxIdleConns int) {
	b.db.SetMaxIdleConns(maxIdleConns)
}

// Close checkpoints the write-ahead log and closes the database. Failures
// of both steps are reported.
func (b *Backend) Close() error {
	b.Lock()
	defer b.Unlock()
	if err := b.db.Close(); err != nil {
		return serrors.JoinNoStack(ring.ErrStorage, err)
	}
	return nil
}

type executor struct {
	sync.RWMutex
	db db.Sqler
}

func (e *executor) InsertUser(ctx context.Context, user *keyring.User) error {
	if user == nil {
		return storageError(db.NewInputDataError("user must not be nil", nil))
	}
	e.Lock()
	defer e.Unlock()
	query := `INSERT INTO users (id, name, email) VALUES (?, ?, ?)`
	if _, err := e.db.ExecContext(ctx, query, user.ID, user.Name, user.Email); err != nil {
		return storageError(db.NewWriteError("inserting user", err, "id", user.ID))
	}
	return nil
}

func (e *executor) InsertPrivateKey(ctx context.Context, userID string,
	key *keyring.PrivateKey) error {

	if key == nil {
		return storageError(db.NewInputDataError("key must not be nil", nil))
	}
	e.Lock()
	defer e.Unlock()
	query := `INSERT INTO private_keys
		(user_id, is_primary, key_type, expiry, private_key, fingerprint, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := e.db.ExecContext(ctx, query, userID, key.IsPrimary(), key.Type().String(),
		key.Expiry().String(), key.Bytes(), []byte(key.Fingerprint()), key.Signature())
	if err != nil {
		return storageError(db.NewWriteError("inserting private key", err,
			"user_id", userID, "fingerprint", key.Fingerprint()))
	}
	return nil
}

func (e *executor) InsertPublicKey(ctx context.Context, userID string,
	key *keyring.PublicKey) error {

	if key == nil {
		return storageError(db.NewInputDataError("key must not be nil", nil))
	}
	e.Lock()
	defer e.Unlock()
	query := `INSERT INTO public_keys
		(user_id, is_primary, key_type, expiry, public_key, fingerprint, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := e.db.ExecContext(ctx, query, userID, key.IsPrimary(), key.Type().String(),
		key.Expiry().String(), key.Bytes(), []byte(key.Fingerprint()), key.Signature())
	if err != nil {
		return storageError(db.NewWriteError("inserting public key", err,
			"user_id", userID, "fingerprint", key.Fingerprint()))
	}
	return nil
}

func (e *executor) UserByID(ctx context.Context, id string) (*keyring.User, error) {
	users, err := e.users(ctx, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, serrors.JoinNoStack(ring.ErrNotFound, nil, "user_id", id)
	}
	return users[0], nil
}

func (e *executor) UserByEmail(ctx context.Context, email string) (*keyring.User, error) {
	users, err := e.users(ctx, `WHERE email = ? ORDER BY rowid LIMIT 1`, email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, serrors.JoinNoStack(ring.ErrNotFound, nil, "email", email)
	}
	return users[0], nil
}

func (e *executor) UsersByName(ctx context.Context, name string) ([]*keyring.User, error) {
	return e.users(ctx, `WHERE name = ? ORDER BY rowid`, name)
}

func (e *executor) users(ctx context.Context, cond string, args ...any) ([]*keyring.User, error) {
	e.RLock()
	defer e.RUnlock()
	query := fmt.Sprintf(`SELECT id, name, email FROM users %s`, cond)
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(db.NewReadError("selecting users", err))
	}
	defer rows.Close()
	var users []*keyring.User
	for rows.Next() {
		var id, name, email string
		if err := rows.Scan(&id, &name, &email); err != nil {
			return nil, storageError(db.NewReadError("scanning user", err))
		}
		user, err := keyring.UserFrom(id, name, email)
		if err != nil {
			return nil, storageError(db.NewDataError("invalid user row", err, "id", id))
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(db.NewReadError("iterating users", err))
	}
	return users, nil
}

func (e *executor) PrivateKeys(ctx context.Context,
	userID string) ([]*keyring.PrivateKey, error) {

	params, err := e.keys(ctx, privateTable, `WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	return privateKeys(params)
}

func (e *executor) PrivateKeyByFingerprint(ctx context.Context,
	fp keyring.Fingerprint) (*keyring.PrivateKey, error) {

	params, err := e.keys(ctx, privateTable,
		`WHERE fingerprint = ? ORDER BY rowid LIMIT 1`, []byte(fp))
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, serrors.JoinNoStack(ring.ErrNotFound, nil, "fingerprint", fp)
	}
	keys, err := privateKeys(params)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

func (e *executor) PrivateKey(ctx context.Context, userID string,
	fp keyring.Fingerprint) (*keyring.PrivateKey, error) {

	params, err := e.keys(ctx, privateTable,
		`WHERE user_id = ? AND fingerprint = ? ORDER BY rowid LIMIT 1`, userID, []byte(fp))
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, serrors.JoinNoStack(ring.ErrNotFound, nil,
			"user_id", userID, "fingerprint", fp)
	}
	keys, err := privateKeys(params)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

func (e *executor) PublicKeys(ctx context.Context,
	userID string) ([]*keyring.PublicKey, error) {

	params, err := e.keys(ctx, publicTable, `WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	return publicKeys(params)
}

func (e *executor) PublicKeyByFingerprint(ctx context.Context,
	fp keyring.Fingerprint) (*keyring.PublicKey, error) {

	params, err := e.keys(ctx, publicTable,
		`WHERE fingerprint = ? ORDER BY rowid LIMIT 1`, []byte(fp))
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, serrors.JoinNoStack(ring.ErrNotFound, nil, "fingerprint", fp)
	}
	keys, err := publicKeys(params)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

func (e *executor) PublicKey(ctx context.Context, userID string,
	fp keyring.Fingerprint) (*keyring.PublicKey, error) {

	params, err := e.keys(ctx, publicTable,
		`WHERE user_id = ? AND fingerprint = ? ORDER BY rowid LIMIT 1`, userID, []byte(fp))
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, serrors.JoinNoStack(ring.ErrNotFound, nil,
			"user_id", userID, "fingerprint", fp)
	}
	keys, err := publicKeys(params)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

type keyTable struct {
	name      string
	keyColumn string
}

var (
	privateTable = keyTable{name: "private_keys", keyColumn: "private_key"}
	publicTable  = keyTable{name: "public_keys", keyColumn: "public_key"}
)

// keys selects the raw key rows of table that match cond.
func (e *executor) keys(ctx context.Context, table keyTable, cond string,
	args ...any) ([]keyring.KeyParams, error) {

	e.RLock()
	defer e.RUnlock()
	query := fmt.Sprintf(`SELECT is_primary, key_type, expiry, %s, fingerprint, signature
		FROM %s %s`, table.keyColumn, table.name, cond)
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(db.NewReadError("selecting keys", err, "table", table.name))
	}
	defer rows.Close()
	var res []keyring.KeyParams
	for rows.Next() {
		var (
			primary         bool
			keyType, expiry string
			key, fp, sig    []byte
		)
		if err := rows.Scan(&primary, &keyType, &expiry, &key, &fp, &sig); err != nil {
			return nil, storageError(db.NewReadError("scanning key", err, "table", table.name))
		}
		p, err := keyParams(primary, keyType, expiry, key, fp, sig)
		if err != nil {
			return nil, storageError(db.NewDataError("invalid key row", err,
				"table", table.name))
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(db.NewReadError("iterating keys", err, "table", table.name))
	}
	return res, nil
}

func keyParams(primary bool, keyType, expiry string,
	key, fp, sig []byte) (keyring.KeyParams, error) {

	t, err := keyring.ParseKeyType(keyType)
	if err != nil {
		return keyring.KeyParams{}, err
	}
	e, err := keyring.ParseExpiry(expiry)
	if err != nil {
		return keyring.KeyParams{}, err
	}
	return keyring.KeyParams{
		Primary:     primary,
		Type:        t,
		Expiry:      e,
		Bytes:       key,
		Fingerprint: fp,
		Signature:   sig,
	}, nil
}

func privateKeys(params []keyring.KeyParams) ([]*keyring.PrivateKey, error) {
	keys := make([]*keyring.PrivateKey, 0, len(params))
	for _, p := range params {
		k, err := keyring.PrivateKeyFrom(p)
		if err != nil {
			return nil, storageError(db.NewDataError("invalid private key row", err,
				"fingerprint", p.Fingerprint))
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func publicKeys(params []keyring.KeyParams) ([]*keyring.PublicKey, error) {
	keys := make([]*keyring.PublicKey, 0, len(params))
	for _, p := range params {
		k, err := keyring.PublicKeyFrom(p)
		if err != nil {
			return nil, storageError(db.NewDataError("invalid public key row", err,
				"fingerprint", p.Fingerprint))
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func storageError(err error) error {
	return serrors.JoinNoStack(ring.ErrStorage, err)
}
