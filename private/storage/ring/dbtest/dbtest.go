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

// Package dbtest contains the test suite for implementations of ring.DB.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/private/storage/ring"
)

const timeout = 3 * time.Second

// TestableDB extends the ring DB interface with a method that is used to
// initialize a clean ring before each test.
type TestableDB interface {
	ring.DB
	Prepare(t *testing.T, ctx context.Context)
}

// TestDB should be used to test any implementation of the ring.DB interface.
// An implementation of the ring.DB interface should at least have one test
// method that calls this test-suite.
func TestDB(t *testing.T, db TestableDB) {
	tests := map[string]func(*testing.T, ring.DB){
		"store and retrieve": testStoreRetrieve,
		"users":              testUsers,
		"key listing":        testKeyListing,
		"public keys":        testPublicKeys,
		"not found":          testNotFound,
		"unknown user":       testUnknownUser,
		"append only":        testAppendOnly,
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			prepareCtx, cancelF := context.WithTimeout(context.Background(), 2*timeout)
			db.Prepare(t, prepareCtx)
			cancelF()
			defer db.Close()
			test(t, db)
		})
	}
}

var keyCmpOpts = cmp.Options{
	cmp.AllowUnexported(keyring.PrivateKey{}, keyring.PublicKey{}),
}

func testCtx(t *testing.T) context.Context {
	ctx, cancelF := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancelF)
	return ctx
}

func insertUser(t *testing.T, ctx context.Context, db ring.DB,
	name, email string) *keyring.User {

	t.Helper()
	user, err := keyring.NewUser(name, email)
	require.NoError(t, err)
	require.NoError(t, db.InsertUser(ctx, user))
	return user
}

func testStoreRetrieve(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	alice := insertUser(t, ctx, db, "alice", "alice@example.com")

	primary, err := keyring.GenerateKey(keyring.Ed25519)
	require.NoError(t, err)
	require.NoError(t, primary.SetPrimary(true))
	derived, err := primary.DeriveKey(keyring.X25519)
	require.NoError(t, err)
	expiry, err := keyring.NewExpiry(2030, 6, 15)
	require.NoError(t, err)
	derived.SetExpiry(expiry)

	require.NoError(t, db.InsertPrivateKey(ctx, alice.ID, primary))
	require.NoError(t, db.InsertPrivateKey(ctx, alice.ID, derived))

	got, err := db.PrivateKey(ctx, alice.ID, derived.Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, derived.PublicBytes(), got.PublicBytes())
	assert.Empty(t, cmp.Diff(derived, got, keyCmpOpts))
	assert.NoError(t, got.VerifySignature(primary.PublicKey()))

	got, err = db.PrivateKeyByFingerprint(ctx, primary.Fingerprint())
	require.NoError(t, err)
	assert.True(t, got.IsPrimary())
	assert.Empty(t, cmp.Diff(primary, got, keyCmpOpts))
}

func testUsers(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	first := insertUser(t, ctx, db, "bob", "bob@example.com")
	second := insertUser(t, ctx, db, "bob", "bob@example.org")
	insertUser(t, ctx, db, "carol", "bob@example.com")

	got, err := db.UserByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = db.UserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	users, err := db.UsersByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []*keyring.User{first, second}, users)

	users, err = db.UsersByName(ctx, "dave")
	require.NoError(t, err)
	assert.Empty(t, users)

	// Ids are unique.
	assert.ErrorIs(t, db.InsertUser(ctx, first), ring.ErrStorage)
}

func testKeyListing(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	alice := insertUser(t, ctx, db, "alice", "alice@example.com")
	bob := insertUser(t, ctx, db, "bob", "bob@example.com")

	var aliceKeys []*keyring.PrivateKey
	for _, kt := range []keyring.KeyType{keyring.Ed25519, keyring.X25519, keyring.Ed25519} {
		k, err := keyring.GenerateKey(kt)
		require.NoError(t, err)
		require.NoError(t, db.InsertPrivateKey(ctx, alice.ID, k))
		aliceKeys = append(aliceKeys, k)
	}
	bobKey, err := keyring.GenerateKey(keyring.X25519)
	require.NoError(t, err)
	require.NoError(t, db.InsertPrivateKey(ctx, bob.ID, bobKey))

	keys, err := db.PrivateKeys(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(aliceKeys, keys, keyCmpOpts))

	keys, err = db.PrivateKeys(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.True(t, bobKey.Fingerprint().Equal(keys[0].Fingerprint()))

	// A key is only found for its owner.
	_, err = db.PrivateKey(ctx, bob.ID, aliceKeys[0].Fingerprint())
	assert.ErrorIs(t, err, ring.ErrNotFound)
}

func testPublicKeys(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	alice := insertUser(t, ctx, db, "alice", "alice@example.com")

	issuer, err := keyring.GenerateKey(keyring.Ed25519)
	require.NoError(t, err)
	k, err := issuer.DeriveKey(keyring.Ed25519)
	require.NoError(t, err)
	pub := k.PublicKey()
	require.NoError(t, db.InsertPublicKey(ctx, alice.ID, pub))

	got, err := db.PublicKey(ctx, alice.ID, pub.Fingerprint())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(pub, got, keyCmpOpts))

	got, err = db.PublicKeyByFingerprint(ctx, pub.Fingerprint())
	require.NoError(t, err)
	assert.NoError(t, got.VerifySignature(issuer.PublicKey()))

	keys, err := db.PublicKeys(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	// Public and private keys are stored separately.
	_, err = db.PrivateKeyByFingerprint(ctx, pub.Fingerprint())
	assert.ErrorIs(t, err, ring.ErrNotFound)
}

func testNotFound(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	unknown := keyring.ComputeFingerprint([]byte("unknown"))

	_, err := db.UserByID(ctx, "0000")
	assert.ErrorIs(t, err, ring.ErrNotFound)
	_, err = db.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ring.ErrNotFound)
	_, err = db.PrivateKeyByFingerprint(ctx, unknown)
	assert.ErrorIs(t, err, ring.ErrNotFound)
	_, err = db.PrivateKey(ctx, "0000", unknown)
	assert.ErrorIs(t, err, ring.ErrNotFound)
	_, err = db.PublicKeyByFingerprint(ctx, unknown)
	assert.ErrorIs(t, err, ring.ErrNotFound)
	_, err = db.PublicKey(ctx, "0000", unknown)
	assert.ErrorIs(t, err, ring.ErrNotFound)

	keys, err := db.PrivateKeys(ctx, "0000")
	require.NoError(t, err)
	assert.Empty(t, keys)
	pubs, err := db.PublicKeys(ctx, "0000")
	require.NoError(t, err)
	assert.Empty(t, pubs)
}

func testUnknownUser(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	k, err := keyring.GenerateKey(keyring.Ed25519)
	require.NoError(t, err)
	assert.ErrorIs(t, db.InsertPrivateKey(ctx, "0000", k), ring.ErrStorage)
	assert.ErrorIs(t, db.InsertPublicKey(ctx, "0000", k.PublicKey()), ring.ErrStorage)
}

func testAppendOnly(t *testing.T, db ring.DB) {
	ctx := testCtx(t)
	alice := insertUser(t, ctx, db, "alice", "alice@example.com")
	k, err := keyring.GenerateKey(keyring.Ed25519)
	require.NoError(t, err)
	require.NoError(t, db.InsertPrivateKey(ctx, alice.ID, k))

	// Rotating metadata inserts a new row. The first row wins lookups.
	require.NoError(t, k.SetPrimary(true))
	require.NoError(t, db.InsertPrivateKey(ctx, alice.ID, k))

	keys, err := db.PrivateKeys(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.False(t, keys[0].IsPrimary())
	assert.True(t, keys[1].IsPrimary())

	got, err := db.PrivateKey(ctx, alice.ID, k.Fingerprint())
	require.NoError(t, err)
	assert.False(t, got.IsPrimary())
}
