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

	"github.com/cckit/cck/pkg/scrypto"
)

// KeyType is the algorithm of an asymmetric key.
type KeyType uint8

const (
	// Ed25519 keys can sign. Only they may be primary or issue derived keys.
	Ed25519 KeyType = iota + 1
	// X25519 keys are used for key agreement only.
	X25519
)

// ParseKeyType parses the key type case-insensitively.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(s) {
	case "ed25519":
		return Ed25519, nil
	case "x25519":
		return X25519, nil
	default:
		return 0, codecError(ErrUnknownKeyType, nil, "value", s)
	}
}

func (t KeyType) String() string {
	switch t {
	case Ed25519:
		return "Ed25519"
	case X25519:
		return "X25519"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// CanSign reports whether keys of this type can sign.
func (t KeyType) CanSign() bool {
	return t == Ed25519
}

func (t KeyType) valid() bool {
	return t == Ed25519 || t == X25519
}

func (t KeyType) algo() string {
	if t == Ed25519 {
		return scrypto.Ed25519
	}
	return scrypto.X25519
}

// MarshalText implements encoding.TextMarshaler.
func (t KeyType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, validationError("unknown key type", "value", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *KeyType) UnmarshalText(b []byte) error {
	parsed, err := ParseKeyType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
