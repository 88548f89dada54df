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
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/cckit/cck/pkg/compress"
	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/pkg/scrypto"
)

// messageContext is the BLAKE3 key derivation context of sealed messages.
const messageContext = "cck 2024 sealed message"

// minMessageSize is the size of a sealed empty message before compression.
const minMessageSize = KeySize + chacha20poly1305.NonceSize + chacha20poly1305.Overhead

// SealMessage compresses plaintext and encrypts it for recipient, which must
// be an X25519 key. The result is laid out as
//
//	ephemeral public key (32) || nonce (12) || ciphertext
//
// Only the holder of the private recipient key can open it.
func SealMessage(recipient *PublicKey, plaintext []byte, level compress.Level) ([]byte, error) {
	if recipient.Type() != X25519 {
		return nil, validationError("recipient must be an X25519 key", "type", recipient.Type())
	}
	if err := level.Validate(); err != nil {
		return nil, serrors.JoinNoStack(ErrValidation, err)
	}
	eph, err := GenerateKey(X25519)
	if err != nil {
		return nil, err
	}
	aead, err := messageAEAD(eph.priv, recipient.pub, eph.pub, recipient.pub)
	if err != nil {
		return nil, err
	}
	compressed, err := compress.Compress(level, plaintext)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "op", "compress")
	}
	sealed, err := scrypto.Seal(aead, compressed, eph.pub)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "op", "seal")
	}
	return append(eph.PublicBytes(), sealed...), nil
}

// OpenMessage decrypts a message sealed for the public half of priv.
func OpenMessage(priv *PrivateKey, sealed []byte) ([]byte, error) {
	if priv.Type() != X25519 {
		return nil, validationError("recipient must be an X25519 key", "type", priv.Type())
	}
	if len(sealed) < minMessageSize {
		return nil, codecError(ErrDecodeFailure, nil, "reason", "message too short",
			"length", len(sealed), "min", minMessageSize)
	}
	ephPub := sealed[:KeySize]
	aead, err := messageAEAD(priv.priv, ephPub, ephPub, priv.pub)
	if err != nil {
		return nil, err
	}
	compressed, err := scrypto.Open(aead, sealed[KeySize:], ephPub)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrProvider, err, "op", "open")
	}
	plaintext, err := compress.Decompress(compressed)
	if err != nil {
		return nil, codecError(ErrDecodeFailure, err, "op", "decompress")
	}
	return plaintext, nil
}

// messageAEAD derives the message key from the shared secret of priv and
// peer, bound to both public keys.
func messageAEAD(priv, peer, ephPub, recipientPub []byte) (cipher.AEAD, error) {
	shared, err := scrypto.DiffieHellman(priv, peer)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err, "op", "diffie_hellman")
	}
	material := make([]byte, 0, len(shared)+len(ephPub)+len(recipientPub))
	material = append(material, shared...)
	material = append(material, ephPub...)
	material = append(material, recipientPub...)
	key := scrypto.DeriveKey(messageContext, material, chacha20poly1305.KeySize)
	aead, err := scrypto.NewChaCha20Poly1305(key)
	if err != nil {
		return nil, serrors.Join(ErrProvider, err)
	}
	return aead, nil
}

// EncodeMessagePEM wraps a sealed message in a CCK MESSAGE PEM block.
func EncodeMessagePEM(sealed []byte, le encoding.LineEnding) ([]byte, error) {
	return encoding.EncodePEM(encoding.LabelCCKMessage, sealed, le)
}

// DecodeMessagePEM extracts a sealed message from a CCK MESSAGE PEM block.
func DecodeMessagePEM(raw []byte) ([]byte, error) {
	_, sealed, err := encoding.DecodePEM(raw, encoding.LabelCCKMessage)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrCodec, err)
	}
	return sealed, nil
}
