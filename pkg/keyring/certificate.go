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
	"fmt"
	"strings"

	"github.com/cckit/cck/pkg/encoding"
)

const certificateLines = 4

// Certificate binds a public key to an expiry. It carries no signature.
type Certificate struct {
	Expiry      Expiry
	Type        KeyType
	Key         []byte
	Fingerprint Fingerprint
}

// NewCertificate creates the certificate for pub.
func NewCertificate(pub *PublicKey) *Certificate {
	return &Certificate{
		Expiry:      pub.Expiry(),
		Type:        pub.Type(),
		Key:         pub.Bytes(),
		Fingerprint: pub.Fingerprint(),
	}
}

// String returns the four line text form of the certificate. There is no
// newline after the last line.
func (c *Certificate) String() string {
	return fmt.Sprintf("%s:%s\n%s:%s\n%s:%s\n%s:%s",
		LabelExpiry, c.Expiry,
		LabelKeyType, c.Type,
		LabelPublicKey, encoding.Base64.EncodeToString(c.Key),
		LabelFingerprint, encoding.Base64.EncodeToString(c.Fingerprint),
	)
}

// ParseCertificate parses the text form of a certificate. It must consist
// of exactly four lines. The fields can be in any order.
func ParseCertificate(s string) (*Certificate, error) {
	lines := strings.Split(s, "\n")
	if len(lines) != certificateLines {
		return nil, codecError(ErrMissingField, nil, "reason", "wrong number of lines",
			"expected", certificateLines, "actual", len(lines))
	}
	var c Certificate
	seen := make(map[string]bool, certificateLines)
	for i, line := range lines {
		lineNo := i + 1
		label, value, ok := strings.Cut(line, ":")
		if !ok || value == "" {
			return nil, codecError(ErrMissingField, nil, "line", lineNo)
		}
		if seen[label] {
			return nil, codecError(ErrLabelMismatch, nil, "reason", "duplicate field",
				"field", label, "line", lineNo)
		}
		seen[label] = true

		var err error
		switch label {
		case LabelExpiry:
			c.Expiry, err = ParseExpiry(value)
		case LabelKeyType:
			c.Type, err = ParseKeyType(value)
		case LabelPublicKey:
			c.Key, err = decodeBase64(label, value, lineNo)
		case LabelFingerprint:
			var fp []byte
			fp, err = decodeBase64(label, value, lineNo)
			c.Fingerprint = fp
		default:
			return nil, codecError(ErrLabelMismatch, nil, "reason", "unknown field",
				"field", label, "line", lineNo)
		}
		if err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Validate checks the key length and that the fingerprint belongs to the key.
func (c *Certificate) Validate() error {
	if !c.Type.valid() {
		return validationError("unknown key type", "type", c.Type)
	}
	if len(c.Key) != KeySize {
		return validationError("invalid key length", "expected", KeySize, "actual", len(c.Key))
	}
	if fp := ComputeFingerprint(c.Key); !fp.Equal(c.Fingerprint) {
		return validationError("fingerprint does not match key",
			"expected", fp, "actual", c.Fingerprint)
	}
	return nil
}

// PublicKey validates the certificate and returns the certified key.
func (c *Certificate) PublicKey() (*PublicKey, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return PublicKeyFrom(KeyParams{
		Type:        c.Type,
		Expiry:      c.Expiry,
		Bytes:       c.Key,
		Fingerprint: c.Fingerprint,
	})
}
