// Copyright 2024 CCK Authors
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

package scrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/cckit/cck/pkg/private/serrors"
)

var ErrDecrypt = errors.New("unable to decrypt message")

// NewAESGCM returns AES-GCM with AES-128, AES-192 or AES-256 depending on
// the key length.
func NewAESGCM(key []byte) (cipher.AEAD, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"cipher", "aes-gcm", "actual", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, serrors.Wrap("creating block cipher", err)
	}
	return cipher.NewGCM(block)
}

// NewChaCha20Poly1305 returns ChaCha20-Poly1305 for a 32 byte key.
func NewChaCha20Poly1305(key []byte) (cipher.AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"cipher", "chacha20poly1305", "expected", chacha20poly1305.KeySize,
			"actual", len(key))
	}
	return chacha20poly1305.New(key)
}

// Seal encrypts plaintext with a fresh random nonce. The nonce is prefixed
// to the returned ciphertext.
func Seal(aead cipher.AEAD, plaintext, aad []byte) ([]byte, error) {
	nonce, err := Nonce(aead.NonceSize())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, aad), nil
}

// Open reverses Seal.
func Open(aead cipher.AEAD, sealed, aad []byte) ([]byte, error) {
	ns := aead.NonceSize()
	if len(sealed) < ns+aead.Overhead() {
		return nil, serrors.JoinNoStack(ErrDecrypt, nil, "reason", "ciphertext too short",
			"length", len(sealed))
	}
	plaintext, err := aead.Open(nil, sealed[:ns], sealed[ns:], aad)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrDecrypt, err)
	}
	return plaintext, nil
}
