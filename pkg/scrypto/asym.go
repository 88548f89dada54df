// Copyright 2017 ETH Zurich
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

// Package scrypto wraps the cryptographic primitives used by the keyring:
// Ed25519 signatures, X25519 key agreement, BLAKE3 digests, AEAD ciphers,
// Argon2id password hashing and secure random bytes.
//
// All private keys handled by this package are 32 bytes. For Ed25519 the
// private key is the seed from which the expanded signing key is computed.
package scrypto

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/ed25519"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Available asymmetric algorithms. The values must be lower case.
const (
	Ed25519 = "ed25519"
	X25519  = "x25519"
)

const (
	// KeySize is the size of private and public keys of both algorithms.
	KeySize = 32
	// SignatureSize is the size of an Ed25519 signature.
	SignatureSize = ed25519.SignatureSize
)

var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnsupportedAlgo  = errors.New("unsupported algorithm")
	ErrKeyAgreement     = errors.New("key agreement failed")
)

// GenKeyPair generates a key pair for algo. It returns the public and the
// private key.
func GenKeyPair(algo string) ([]byte, []byte, error) {
	priv, err := RandomBytes(KeySize)
	if err != nil {
		return nil, nil, serrors.Wrap("generating key pair", err, "algo", algo)
	}
	pub, err := PublicKey(algo, priv)
	if err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

// PublicKey computes the public key for the 32 byte private key.
func PublicKey(algo string, priv []byte) ([]byte, error) {
	if len(priv) != KeySize {
		return nil, serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"algo", algo, "expected", KeySize, "actual", len(priv))
	}
	switch strings.ToLower(algo) {
	case Ed25519:
		signer := ed25519.NewKeyFromSeed(priv)
		return append([]byte(nil), signer.Public().(ed25519.PublicKey)...), nil
	case X25519:
		pub, err := curve25519.X25519(priv, curve25519.Basepoint)
		if err != nil {
			return nil, serrors.Join(ErrKeyAgreement, err, "algo", algo)
		}
		return pub, nil
	default:
		return nil, serrors.JoinNoStack(ErrUnsupportedAlgo, nil, "algo", algo)
	}
}

// Sign signs msg with the private key. Only Ed25519 is supported.
func Sign(msg, priv []byte, algo string) ([]byte, error) {
	if strings.ToLower(algo) != Ed25519 {
		return nil, serrors.JoinNoStack(ErrUnsupportedAlgo, nil, "algo", algo, "op", "sign")
	}
	if len(priv) != KeySize {
		return nil, serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"expected", KeySize, "actual", len(priv))
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(priv), msg), nil
}

// Verify returns an error if sig is not a valid signature of msg under pub.
// Only Ed25519 is supported.
func Verify(msg, sig, pub []byte, algo string) error {
	if strings.ToLower(algo) != Ed25519 {
		return serrors.JoinNoStack(ErrUnsupportedAlgo, nil, "algo", algo, "op", "verify")
	}
	if len(pub) != ed25519.PublicKeySize {
		return serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"expected", ed25519.PublicKeySize, "actual", len(pub))
	}
	if len(sig) != SignatureSize || !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// DiffieHellman computes the X25519 shared secret of priv and peer. It fails
// if peer is a low order point.
func DiffieHellman(priv, peer []byte) ([]byte, error) {
	if len(priv) != KeySize || len(peer) != KeySize {
		return nil, serrors.JoinNoStack(ErrInvalidKeySize, nil,
			"private", len(priv), "peer", len(peer))
	}
	shared, err := curve25519.X25519(priv, peer)
	if err != nil {
		return nil, serrors.Join(ErrKeyAgreement, err)
	}
	return shared, nil
}

// Equal compares a and b in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
