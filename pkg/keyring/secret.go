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

// Secret is symmetric key material of 16, 24 or 32 bytes. It selects AES-128,
// AES-192 or AES-256 in GCM mode respectively.
type Secret struct {
	key         []byte
	fingerprint Fingerprint
}

// NewSecret creates a secret from a copy of b.
func NewSecret(b []byte) (*Secret, error) {
	switch len(b) {
	case 16, 24, 32:
	default:
		return nil, validationError("invalid secret length", "length", len(b))
	}
	key := cloneOrNil(b)
	return &Secret{key: key, fingerprint: ComputeFingerprint(key)}, nil
}

// GenerateSecret creates a random secret of the given size.
func GenerateSecret(size int) (*Secret, error) {
	switch size {
	case 16, 24, 32:
	default:
		return nil, validationError("invalid secret length", "length", size)
	}
	b, err := scrypto.RandomBytes(size)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err)
	}
	return NewSecret(b)
}

func (s *Secret) Bytes() []byte            { return cloneOrNil(s.key) }
func (s *Secret) Fingerprint() Fingerprint { return Fingerprint(cloneOrNil(s.fingerprint)) }
func (s *Secret) Signature() []byte        { return nil }
func (s *Secret) Len() int                 { return len(s.key) }

// Seal encrypts and authenticates plaintext and aad. The random nonce is
// prefixed to the result.
func (s *Secret) Seal(plaintext, aad []byte) ([]byte, error) {
	aead, err := scrypto.NewAESGCM(s.key)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err)
	}
	sealed, err := scrypto.Seal(aead, plaintext, aad)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err)
	}
	return sealed, nil
}

// Open reverses Seal.
func (s *Secret) Open(sealed, aad []byte) ([]byte, error) {
	aead, err := scrypto.NewAESGCM(s.key)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err)
	}
	plaintext, err := scrypto.Open(aead, sealed, aad)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrProvider, err)
	}
	return plaintext, nil
}
