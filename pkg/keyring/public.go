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

// PublicKey is the public half of a key pair.
type PublicKey struct {
	primary     bool
	keyType     KeyType
	expiry      Expiry
	pub         []byte
	fingerprint Fingerprint
	signature   []byte
}

// PublicKeyFrom reconstructs a public key. The fingerprint is taken as is,
// because a public key cannot be checked against its private half. Use
// ComputeFingerprint to check it against the key bytes if required.
func PublicKeyFrom(p KeyParams) (*PublicKey, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	fp := p.Fingerprint
	if len(fp) == 0 {
		fp = ComputeFingerprint(p.Bytes)
	}
	return &PublicKey{
		primary:     p.Primary,
		keyType:     p.Type,
		expiry:      p.Expiry,
		pub:         cloneOrNil(p.Bytes),
		fingerprint: Fingerprint(cloneOrNil(fp)),
		signature:   cloneOrNil(p.Signature),
	}, nil
}

func (k *PublicKey) Bytes() []byte            { return cloneOrNil(k.pub) }
func (k *PublicKey) Fingerprint() Fingerprint { return Fingerprint(cloneOrNil(k.fingerprint)) }
func (k *PublicKey) Signature() []byte        { return cloneOrNil(k.signature) }
func (k *PublicKey) Len() int                 { return len(k.pub) }
func (k *PublicKey) IsPrimary() bool          { return k.primary }
func (k *PublicKey) Type() KeyType            { return k.keyType }
func (k *PublicKey) Expiry() Expiry           { return k.expiry }
func (k *PublicKey) IsPrivate() bool          { return false }

// SetPrimary marks the key as primary. Only signing keys can be primary.
func (k *PublicKey) SetPrimary(primary bool) error {
	if primary && !k.keyType.CanSign() {
		return validationError("primary key must be able to sign", "type", k.keyType)
	}
	k.primary = primary
	return nil
}

// SetExpiry sets the expiry and returns the key.
func (k *PublicKey) SetExpiry(e Expiry) *PublicKey {
	k.expiry = e
	return k
}

// VerifySignature checks that the delegation signature of k was issued by
// issuer over the public key bytes of k.
func (k *PublicKey) VerifySignature(issuer *PublicKey) error {
	if len(k.signature) == 0 {
		return validationError("key has no signature", "fingerprint", k.fingerprint)
	}
	return issuer.Verify(k.pub, k.signature)
}

// Verify checks sig over msg. The key must be an Ed25519 key.
func (k *PublicKey) Verify(msg, sig []byte) error {
	if !k.keyType.CanSign() {
		return validationError("key cannot verify", "type", k.keyType)
	}
	if err := scrypto.Verify(msg, sig, k.pub, k.keyType.algo()); err != nil {
		return serrors.JoinNoStack(ErrValidation, err, "signer", k.fingerprint)
	}
	return nil
}
