// Copyright 2022 Anapaya Systems
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

package encoding_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/encoding"
)

func TestEncodeBytes(t *testing.T) {
	input := []byte{0x00, 0xfb, 0xff, 0x10}
	testCases := map[string]struct {
		format       string
		expected     string
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"hex": {
			format:       encoding.FormatHex,
			expected:     "00fbff10",
			ErrAssertion: assert.NoError,
		},
		"base64": {
			format:       encoding.FormatBase64,
			expected:     "APv/EA==",
			ErrAssertion: assert.NoError,
		},
		"base64-url": {
			format:       encoding.FormatBase64URL,
			expected:     "APv_EA==",
			ErrAssertion: assert.NoError,
		},
		"base64-raw": {
			format:       encoding.FormatBase64Raw,
			expected:     "APv/EA",
			ErrAssertion: assert.NoError,
		},
		"base64-url-raw": {
			format:       encoding.FormatBase64URLRaw,
			expected:     "APv_EA",
			ErrAssertion: assert.NoError,
		},
		"base58": {
			format:       encoding.FormatBase58,
			expected:     "17nz4T",
			ErrAssertion: assert.NoError,
		},
		"emoji": {
			format:       "emoji",
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			out, err := encoding.EncodeBytes(input, tc.format)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, encoding.ErrUnsupportedFormat)
				return
			}
			assert.Equal(t, tc.expected, out)
			decoded, err := encoding.DecodeBytes(out, tc.format)
			require.NoError(t, err)
			assert.Equal(t, input, decoded)
		})
	}
}

func TestDecodeBytesInvalid(t *testing.T) {
	_, err := encoding.DecodeBytes("zz", encoding.FormatHex)
	assert.Error(t, err)
	_, err = encoding.DecodeBytes("0OIl", encoding.FormatBase58)
	assert.Error(t, err)
}

func TestPEM(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 100)
	for _, le := range []encoding.LineEnding{encoding.LF, encoding.CRLF} {
		t.Run(le.String(), func(t *testing.T) {
			raw, err := encoding.EncodePEM(encoding.LabelCCKPublicKey, data, le)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(raw,
				[]byte("-----BEGIN CCK PUBLIC KEY-----"+string(le))))
			if le == encoding.LF {
				assert.NotContains(t, string(raw), "\r")
			}

			label, decoded, err := encoding.DecodePEM(raw,
				encoding.LabelCCKPrivateKey, encoding.LabelCCKPublicKey)
			require.NoError(t, err)
			assert.Equal(t, encoding.LabelCCKPublicKey, label)
			assert.Equal(t, data, decoded)

			_, _, err = encoding.DecodePEM(raw, encoding.LabelCCKPrivateKey)
			assert.ErrorIs(t, err, encoding.ErrPEM)
		})
	}
	_, _, err := encoding.DecodePEM([]byte("not pem"), encoding.LabelPublicKey)
	assert.ErrorIs(t, err, encoding.ErrPEM)
	_, err = encoding.EncodePEM(encoding.LabelPublicKey, data, encoding.LineEnding("\r"))
	assert.Error(t, err)
}

func TestParseLineEnding(t *testing.T) {
	le, err := encoding.ParseLineEnding("CRLF")
	require.NoError(t, err)
	assert.Equal(t, encoding.CRLF, le)
	le, err = encoding.ParseLineEnding("native")
	require.NoError(t, err)
	assert.Equal(t, encoding.DefaultLineEnding(), le)
	_, err = encoding.ParseLineEnding("cr")
	assert.Error(t, err)
}
