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

package keyring_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/keyring"
)

func TestCertificate(t *testing.T) {
	k := derivedKey(t, keyring.Ed25519)
	pub := k.PublicKey()
	cert := keyring.NewCertificate(pub)

	s := cert.String()
	assert.Equal(t, "Expiry:2031/12/01\n"+
		"KeyType:Ed25519\n"+
		"PublicKey:"+encoding.Base64.EncodeToString(pub.Bytes())+"\n"+
		"Fingerprint:"+encoding.Base64.EncodeToString(pub.Fingerprint()), s)

	parsed, err := keyring.ParseCertificate(s)
	require.NoError(t, err)
	assert.Equal(t, cert, parsed)
	require.NoError(t, parsed.Validate())

	certified, err := parsed.PublicKey()
	require.NoError(t, err)
	assert.Equal(t, pub.Bytes(), certified.Bytes())
	assert.Equal(t, pub.Expiry(), certified.Expiry())
	assert.Nil(t, certified.Signature())
}

func TestParseCertificate(t *testing.T) {
	k := derivedKey(t, keyring.X25519)
	lines := strings.Split(keyring.NewCertificate(k.PublicKey()).String(), "\n")
	require.Len(t, lines, 4)

	testCases := map[string]struct {
		Lines        []string
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"four lines": {
			Lines:        lines,
			ErrAssertion: assert.NoError,
		},
		"reordered": {
			Lines:        []string{lines[3], lines[2], lines[0], lines[1]},
			ErrAssertion: assert.NoError,
		},
		"three lines": {
			Lines:        lines[:3],
			ErrAssertion: assert.Error,
		},
		"five lines": {
			Lines:        append(append([]string{}, lines...), lines[0]),
			ErrAssertion: assert.Error,
		},
		"trailing newline": {
			Lines:        append(append([]string{}, lines...), ""),
			ErrAssertion: assert.Error,
		},
		"duplicate field": {
			Lines:        []string{lines[0], lines[0], lines[2], lines[3]},
			ErrAssertion: assert.Error,
		},
		"unknown field": {
			Lines:        []string{lines[0], lines[1], lines[2], "Signature:None"},
			ErrAssertion: assert.Error,
		},
		"unknown key type": {
			Lines:        []string{lines[0], "KeyType:Curve25519", lines[2], lines[3]},
			ErrAssertion: assert.Error,
		},
		"missing value": {
			Lines:        []string{lines[0], lines[1], "PublicKey:", lines[3]},
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, err := keyring.ParseCertificate(strings.Join(tc.Lines, "\n"))
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, keyring.ErrCodec)
				return
			}
			assert.Empty(t, cmp.Diff(keyring.NewCertificate(k.PublicKey()), c))
		})
	}
}

func TestCertificateValidate(t *testing.T) {
	k, err := keyring.GenerateKey(keyring.Ed25519)
	require.NoError(t, err)
	cert := keyring.NewCertificate(k.PublicKey())
	require.NoError(t, cert.Validate())

	cert.Fingerprint = keyring.ComputeFingerprint([]byte("other"))
	assert.ErrorIs(t, cert.Validate(), keyring.ErrValidation)
	_, err = cert.PublicKey()
	assert.ErrorIs(t, err, keyring.ErrValidation)

	cert = keyring.NewCertificate(k.PublicKey())
	cert.Key = cert.Key[:16]
	assert.ErrorIs(t, cert.Validate(), keyring.ErrValidation)
}
