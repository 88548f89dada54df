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
	"golang.org/x/crypto/argon2"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Argon2id parameters. They match the defaults of the reference argon2
// implementation: 19 MiB of memory, two passes and one lane.
const (
	Argon2Memory  = 19 * 1024
	Argon2Time    = 2
	Argon2Threads = 1
	Argon2KeyLen  = 32
	// MinSaltSize is the minimal salt length accepted by HashPassword.
	MinSaltSize = 8
)

// HashPassword hashes password with Argon2id.
func HashPassword(password, salt []byte) ([]byte, error) {
	if len(salt) < MinSaltSize {
		return nil, serrors.JoinNoStack(ErrInvalidLength, nil,
			"what", "salt", "min", MinSaltSize, "actual", len(salt))
	}
	return argon2.IDKey(password, salt, Argon2Time, Argon2Memory, Argon2Threads,
		Argon2KeyLen), nil
}

// VerifyPassword checks password against a hash created by HashPassword.
func VerifyPassword(password, salt, hash []byte) error {
	computed, err := HashPassword(password, salt)
	if err != nil {
		return err
	}
	if !Equal(computed, hash) {
		return serrors.New("password mismatch")
	}
	return nil
}
