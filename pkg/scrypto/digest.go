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
	"lukechampine.com/blake3"
)

// DigestSize is the output size of Digest.
const DigestSize = 32

// Digest returns the BLAKE3-256 hash of data followed by salt.
func Digest(data, salt []byte) []byte {
	h := blake3.New(DigestSize, nil)
	h.Write(data)
	h.Write(salt)
	return h.Sum(nil)
}

// DeriveKey derives a size byte key from material in BLAKE3 key derivation
// mode. The context string must be hardcoded and globally unique for the
// application.
func DeriveKey(context string, material []byte, size int) []byte {
	out := make([]byte, size)
	blake3.DeriveKey(out, context, material)
	return out
}
