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
	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/private/serrors"
)

// EncodePEM wraps the text record of k in a CCK PRIVATE KEY or CCK PUBLIC KEY
// block.
func EncodePEM(k AsymmetricKey, le encoding.LineEnding) ([]byte, error) {
	label := encoding.LabelCCKPublicKey
	if k.IsPrivate() {
		label = encoding.LabelCCKPrivateKey
	}
	return encoding.EncodePEM(label, []byte(Encode(k)), le)
}

// EncodeRawPEM writes the bare key bytes in a PRIVATE KEY or PUBLIC KEY
// block. The metadata of the key is lost.
func EncodeRawPEM(k AsymmetricKey, le encoding.LineEnding) ([]byte, error) {
	label := encoding.LabelPublicKey
	if k.IsPrivate() {
		label = encoding.LabelPrivateKey
	}
	return encoding.EncodePEM(label, k.Bytes(), le)
}

// DecodePEM decodes a key written by EncodePEM. The block type must agree
// with the key label of the enclosed record.
func DecodePEM(raw []byte) (AsymmetricKey, error) {
	label, data, err := encoding.DecodePEM(raw,
		encoding.LabelCCKPrivateKey, encoding.LabelCCKPublicKey)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrCodec, err)
	}
	if label == encoding.LabelCCKPrivateKey {
		return DecodePrivateKey(string(data))
	}
	return DecodePublicKey(string(data))
}
