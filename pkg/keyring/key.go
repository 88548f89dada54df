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

// Package keyring implements the key model of the personal keyring: private
// and public key pairs with lifecycle metadata, symmetric secrets, the
// canonical text record of a key, certificates and users.
//
// A primary key is a signing key that anchors the identity of a user. It can
// derive subordinate keys, whose public bytes it signs:
//
//	primary, err := keyring.GenerateKey(keyring.Ed25519)
//	...
//	sub, err := primary.DeriveKey(keyring.X25519)
//	...
//	err = sub.VerifySignature(primary.PublicKey())
//
// Keys are exchanged in the text form produced by Encode and stored in a ring
// (see private/storage/ring).
package keyring

import (
	"github.com/cckit/cck/pkg/scrypto"
)

// KeySize is the length of both private and public keys.
const KeySize = scrypto.KeySize

// SignatureSize is the length of a delegation signature.
const SignatureSize = scrypto.SignatureSize

// Key is the capability set shared by all keys.
type Key interface {
	// Bytes returns a copy of the raw key material.
	Bytes() []byte
	// Fingerprint identifies the key.
	Fingerprint() Fingerprint
	// Signature returns the delegation signature or nil.
	Signature() []byte
	// Len returns the length of the key material.
	Len() int
}

// AsymmetricKey is a Key that is one half of a key pair.
type AsymmetricKey interface {
	Key
	IsPrimary() bool
	Type() KeyType
	Expiry() Expiry
	// IsPrivate reports whether Bytes returns the private half.
	IsPrivate() bool
	// VerifySignature checks that issuer signed the public key.
	VerifySignature(issuer *PublicKey) error
}

var (
	_ AsymmetricKey = (*PrivateKey)(nil)
	_ AsymmetricKey = (*PublicKey)(nil)
	_ Key           = (*Secret)(nil)
)

// KeyParams are the fields from which a key is reconstructed, e.g., a
// decoded text record or a storage row.
type KeyParams struct {
	Primary bool
	Type    KeyType
	Expiry  Expiry
	// Bytes is the private key for PrivateKeyFrom and the public key for
	// PublicKeyFrom.
	Bytes       []byte
	Fingerprint Fingerprint
	// Signature is optional.
	Signature []byte
}

func (p KeyParams) validate() error {
	if !p.Type.valid() {
		return validationError("unknown key type", "type", p.Type)
	}
	if len(p.Bytes) != KeySize {
		return validationError("invalid key length",
			"expected", KeySize, "actual", len(p.Bytes))
	}
	if p.Primary && !p.Type.CanSign() {
		return validationError("primary key must be able to sign", "type", p.Type)
	}
	if len(p.Signature) != 0 && len(p.Signature) != SignatureSize {
		return validationError("invalid signature length",
			"expected", SignatureSize, "actual", len(p.Signature))
	}
	return nil
}

func cloneOrNil(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
