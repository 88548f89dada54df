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

package keyring

import (
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/pkg/scrypto"
)

// PrivateKey is the private half of a key pair. The public half and the
// fingerprint are always computed from the private bytes.
type PrivateKey struct {
	primary     bool
	keyType     KeyType
	expiry      Expiry
	priv        []byte
	pub         []byte
	fingerprint Fingerprint
	signature   []byte
}

// GenerateKey creates a fresh key of type t. The key is not primary, never
// expires and carries no signature.
func GenerateKey(t KeyType) (*PrivateKey, error) {
	if !t.valid() {
		return nil, validationError("unknown key type", "type", t)
	}
	pub, priv, err := scrypto.GenKeyPair(t.algo())
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "type", t)
	}
	return &PrivateKey{
		keyType:     t,
		priv:        priv,
		pub:         pub,
		fingerprint: ComputeFingerprint(pub),
	}, nil
}

// PrivateKeyFrom reconstructs a private key. The public key is derived from
// p.Bytes. If p.Fingerprint is set, it must match the derived public key.
func PrivateKeyFrom(p KeyParams) (*PrivateKey, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	pub, err := scrypto.PublicKey(p.Type.algo(), p.Bytes)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "type", p.Type)
	}
	fp := ComputeFingerprint(pub)
	if len(p.Fingerprint) != 0 && !fp.Equal(p.Fingerprint) {
		return nil, validationError("fingerprint does not match key",
			"expected", fp, "actual", p.Fingerprint)
	}
	return &PrivateKey{
		primary:     p.Primary,
		keyType:     p.Type,
		expiry:      p.Expiry,
		priv:        cloneOrNil(p.Bytes),
		pub:         pub,
		fingerprint: fp,
		signature:   cloneOrNil(p.Signature),
	}, nil
}

// Bytes returns a copy of the private key.
func (k *PrivateKey) Bytes() []byte { return cloneOrNil(k.priv) }

// PublicBytes returns a copy of the public key.
func (k *PrivateKey) PublicBytes() []byte { return cloneOrNil(k.pub) }

func (k *PrivateKey) Fingerprint() Fingerprint { return Fingerprint(cloneOrNil(k.fingerprint)) }
func (k *PrivateKey) Signature() []byte        { return cloneOrNil(k.signature) }
func (k *PrivateKey) Len() int                 { return len(k.priv) }
func (k *PrivateKey) IsPrimary() bool          { return k.primary }
func (k *PrivateKey) Type() KeyType            { return k.keyType }
func (k *PrivateKey) Expiry() Expiry           { return k.expiry }
func (k *PrivateKey) IsPrivate() bool          { return true }

// SetPrimary marks the key as primary. Only signing keys can be primary.
func (k *PrivateKey) SetPrimary(primary bool) error {
	if primary && !k.keyType.CanSign() {
		return validationError("primary key must be able to sign", "type", k.keyType)
	}
	k.primary = primary
	return nil
}

// SetExpiry sets the expiry and returns the key.
func (k *PrivateKey) SetExpiry(e Expiry) *PrivateKey {
	k.expiry = e
	return k
}

// PublicKey returns the public half of the key pair. The returned key does
// not share memory with k.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{
		primary:     k.primary,
		keyType:     k.keyType,
		expiry:      k.expiry,
		pub:         cloneOrNil(k.pub),
		fingerprint: Fingerprint(cloneOrNil(k.fingerprint)),
		signature:   cloneOrNil(k.signature),
	}
}

// DeriveKey creates a subordinate key of type t and signs its public key with
// k. The issuer k must be an Ed25519 key.
func (k *PrivateKey) DeriveKey(t KeyType) (*PrivateKey, error) {
	if !k.keyType.CanSign() {
		return nil, validationError("issuer must be able to sign", "issuer_type", k.keyType)
	}
	child, err := GenerateKey(t)
	if err != nil {
		return nil, err
	}
	sig, err := scrypto.Sign(child.pub, k.priv, k.keyType.algo())
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "op", "sign")
	}
	child.signature = sig
	return child, nil
}

// Sign signs msg. The key must be an Ed25519 key.
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if !k.keyType.CanSign() {
		return nil, validationError("key cannot sign", "type", k.keyType)
	}
	sig, err := scrypto.Sign(msg, k.priv, k.keyType.algo())
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "op", "sign")
	}
	return sig, nil
}

// VerifySignature checks the delegation signature of k against issuer.
func (k *PrivateKey) VerifySignature(issuer *PublicKey) error {
	return k.PublicKey().VerifySignature(issuer)
}

// DiffieHellman computes the shared secret of k and peer. Both keys must be
// X25519 keys.
func (k *PrivateKey) DiffieHellman(peer *PublicKey) (*Secret, error) {
	if k.keyType != X25519 || peer.keyType != X25519 {
		return nil, validationError("key agreement requires X25519 keys",
			"type", k.keyType, "peer_type", peer.keyType)
	}
	shared, err := scrypto.DiffieHellman(k.priv, peer.pub)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "op", "diffie_hellman")
	}
	return NewSecret(shared)
}
