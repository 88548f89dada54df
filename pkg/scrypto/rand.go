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

package scrypto

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/cckit/cck/pkg/private/serrors"
)

var ErrInvalidLength = errors.New("invalid length")

// RandomBytes returns n bytes from the system's secure random source.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, serrors.JoinNoStack(ErrInvalidLength, nil, "length", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, serrors.Wrap("reading random bytes", err)
	}
	return b, nil
}

// Nonce returns a random nonce of length l.
func Nonce(l int) ([]byte, error) {
	return RandomBytes(l)
}
