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
	"bytes"
	"encoding/hex"

	"github.com/cckit/cck/pkg/scrypto"
)

// FingerprintSize is the length of a fingerprint in bytes.
const FingerprintSize = scrypto.DigestSize

// Fingerprint identifies a key. It is the digest of the public key bytes.
type Fingerprint []byte

// ComputeFingerprint returns the fingerprint of the public key bytes.
func ComputeFingerprint(pub []byte) Fingerprint {
	return Fingerprint(scrypto.Digest(pub, nil))
}

// ParseFingerprint parses a hex encoded fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, codecError(ErrDecodeFailure, err, "field", "Fingerprint")
	}
	if len(b) != FingerprintSize {
		return nil, codecError(ErrDecodeFailure, nil, "field", "Fingerprint",
			"expected_length", FingerprintSize, "actual_length", len(b))
	}
	return Fingerprint(b), nil
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f)
}

// Equal reports whether f and o are the same fingerprint.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return bytes.Equal(f, o)
}
