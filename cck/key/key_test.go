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

package key_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/cck/key"
	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/private/app/command"
)

func testConfig() *config.Config {
	cfg := &config.Config{PEM: config.PEM{LineEnding: "lf"}}
	cfg.InitDefaults()
	return cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := key.Cmd(command.StringPather("cck"), testConfig())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()

	testCases := map[string]struct {
		Args         []string
		ErrAssertion assert.ErrorAssertionFunc
		Check        func(t *testing.T, k keyring.AsymmetricKey)
	}{
		"default": {
			Args:         []string{"generate"},
			ErrAssertion: assert.NoError,
			Check: func(t *testing.T, k keyring.AsymmetricKey) {
				assert.Equal(t, keyring.Ed25519, k.Type())
				assert.False(t, k.IsPrimary())
				assert.True(t, k.Expiry().IsZero())
				assert.True(t, k.IsPrivate())
			},
		},
		"primary with expiry": {
			Args:         []string{"generate", "--primary", "--expiry", "2030/06/15"},
			ErrAssertion: assert.NoError,
			Check: func(t *testing.T, k keyring.AsymmetricKey) {
				assert.True(t, k.IsPrimary())
				assert.Equal(t, "2030/06/15", k.Expiry().String())
			},
		},
		"x25519 pem": {
			Args:         []string{"generate", "--type", "x25519", "--pem"},
			ErrAssertion: assert.NoError,
			Check: func(t *testing.T, k keyring.AsymmetricKey) {
				assert.Equal(t, keyring.X25519, k.Type())
			},
		},
		"x25519 primary": {
			Args:         []string{"generate", "--type", "x25519", "--primary"},
			ErrAssertion: assert.Error,
		},
		"to file": {
			Args:         []string{"generate", "--out", filepath.Join(dir, "key.cck")},
			ErrAssertion: assert.NoError,
		},
		"bad expiry": {
			Args:         []string{"generate", "--expiry", "2030/13/01"},
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, tc.Args...)
			tc.ErrAssertion(t, err)
			if tc.Check == nil {
				return
			}
			path := filepath.Join(t.TempDir(), "out")
			require.NoError(t, os.WriteFile(path, []byte(out), 0600))
			k, err := key.Load(nil, path)
			require.NoError(t, err)
			tc.Check(t, k)
		})
	}
}

func TestGenerateExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.cck")
	_, err := run(t, "generate", "--out", path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = run(t, "generate", "--out", path)
	assert.ErrorIs(t, err, os.ErrExist)
	_, err = run(t, "generate", "--out", path, "--force")
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDeriveAndVerify(t *testing.T) {
	dir := t.TempDir()
	issuer := filepath.Join(dir, "issuer.cck")
	derived := filepath.Join(dir, "derived.cck")
	public := filepath.Join(dir, "derived.pub.cck")
	issuerPub := filepath.Join(dir, "issuer.pub.cck")

	_, err := run(t, "generate", "--primary", "--out", issuer)
	require.NoError(t, err)
	_, err = run(t, "derive", "--type", "x25519", "--expiry", "2031/12/01", "--out", derived, issuer)
	require.NoError(t, err)
	_, err = run(t, "public", "--out", public, derived)
	require.NoError(t, err)
	_, err = run(t, "public", "--out", issuerPub, issuer)
	require.NoError(t, err)

	k, err := key.Load(nil, public)
	require.NoError(t, err)
	assert.False(t, k.IsPrivate())
	assert.Equal(t, keyring.X25519, k.Type())
	assert.Equal(t, "2031/12/01", k.Expiry().String())

	out, err := run(t, "verify", public, issuerPub)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	// The issuer is not signed by the derived key.
	_, err = run(t, "verify", issuerPub, public)
	assert.Error(t, err)

	// A public record cannot derive.
	_, err = run(t, "derive", public)
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.cck")
	_, err := run(t, "generate", "--out", path)
	require.NoError(t, err)
	k, err := key.Load(nil, path)
	require.NoError(t, err)

	for _, format := range encoding.Formats {
		t.Run(format, func(t *testing.T) {
			out, err := run(t, "fingerprint", "--format", format, path)
			require.NoError(t, err)
			expected, err := encoding.EncodeBytes(k.Fingerprint(), format)
			require.NoError(t, err)
			assert.Equal(t, expected, strings.TrimSpace(out))
		})
	}
	_, err = run(t, "fingerprint", "--format", "emoji", path)
	assert.Error(t, err)
}

func TestPEM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.cck")
	_, err := run(t, "generate", "--out", path)
	require.NoError(t, err)
	k, err := key.Load(nil, path)
	require.NoError(t, err)

	out, err := run(t, "pem", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "-----BEGIN "+encoding.LabelCCKPrivateKey))
	pemPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(pemPath, []byte(out), 0600))
	decoded, err := key.Load(nil, pemPath)
	require.NoError(t, err)
	assert.Equal(t, k.Bytes(), decoded.Bytes())

	out, err = run(t, "pem", "--raw", path)
	require.NoError(t, err)
	label, data, err := encoding.DecodePEM([]byte(out), encoding.LabelPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, encoding.LabelPrivateKey, label)
	assert.Equal(t, k.Bytes(), data)
}
