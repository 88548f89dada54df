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

package scrypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cckit/cck/pkg/scrypto"
)

func TestDigest(t *testing.T) {
	// BLAKE3 of the empty input.
	expected := "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	assert.Equal(t, expected, hex.EncodeToString(scrypto.Digest(nil, nil)))

	assert.Equal(t, scrypto.Digest([]byte("ab"), nil), scrypto.Digest([]byte("a"), []byte("b")))
	assert.NotEqual(t, scrypto.Digest([]byte("a"), nil), scrypto.Digest([]byte("a"), []byte("s")))
	assert.Len(t, scrypto.Digest([]byte("key"), nil), scrypto.DigestSize)
}

func TestDeriveKey(t *testing.T) {
	k1 := scrypto.DeriveKey("cck test context", []byte("material"), 32)
	k2 := scrypto.DeriveKey("cck test context", []byte("material"), 32)
	k3 := scrypto.DeriveKey("cck other context", []byte("material"), 32)
	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
