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
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/keyring"
)

func TestNewExpiry(t *testing.T) {
	testCases := map[string]struct {
		Year, Month, Day int
		Expected         string
		ErrAssertion     assert.ErrorAssertionFunc
	}{
		"regular":   {Year: 2030, Month: 1, Day: 31, Expected: "2030/01/31", ErrAssertion: assert.NoError},
		"zero":      {Expected: "0000/00/00", ErrAssertion: assert.NoError},
		"max":       {Year: 9999, Month: 12, Day: 31, Expected: "9999/12/31", ErrAssertion: assert.NoError},
		"no day":    {Year: 2030, Month: 6, Expected: "2030/06/00", ErrAssertion: assert.NoError},
		"year 5":    {Year: 5, Month: 5, Day: 5, Expected: "0005/05/05", ErrAssertion: assert.NoError},
		"month 13":  {Year: 2030, Month: 13, Day: 1, ErrAssertion: assert.Error},
		"day 32":    {Year: 2030, Month: 1, Day: 32, ErrAssertion: assert.Error},
		"year 10^4": {Year: 10000, Month: 1, Day: 1, ErrAssertion: assert.Error},
		"negative":  {Year: -1, ErrAssertion: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			e, err := keyring.NewExpiry(tc.Year, tc.Month, tc.Day)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, keyring.ErrValidation)
				return
			}
			assert.Equal(t, tc.Expected, e.String())
			assert.Equal(t, tc.Year, e.Year())
			assert.Equal(t, tc.Month, e.Month())
			assert.Equal(t, tc.Day, e.Day())

			parsed, err := keyring.ParseExpiry(e.String())
			require.NoError(t, err)
			assert.Equal(t, e, parsed)
		})
	}
}

func TestParseExpiry(t *testing.T) {
	testCases := map[string]struct {
		Input        string
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"valid":         {Input: "2024/02/30", ErrAssertion: assert.NoError},
		"never":         {Input: "0000/00/00", ErrAssertion: assert.NoError},
		"two groups":    {Input: "2024/02", ErrAssertion: assert.Error},
		"four groups":   {Input: "2024/02/01/01", ErrAssertion: assert.Error},
		"short year":    {Input: "24/02/01", ErrAssertion: assert.Error},
		"long day":      {Input: "2024/02/001", ErrAssertion: assert.Error},
		"letters":       {Input: "2024/ab/01", ErrAssertion: assert.Error},
		"sign":          {Input: "2024/+1/01", ErrAssertion: assert.Error},
		"month 13":      {Input: "2024/13/01", ErrAssertion: assert.Error},
		"day 32":        {Input: "2024/01/32", ErrAssertion: assert.Error},
		"dashes":        {Input: "2024-01-01", ErrAssertion: assert.Error},
		"empty":         {Input: "", ErrAssertion: assert.Error},
		"slashes only":  {Input: "//", ErrAssertion: assert.Error},
		"trailing data": {Input: "2024/01/01 ", ErrAssertion: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			e, err := keyring.ParseExpiry(tc.Input)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, keyring.ErrMalformedExpiry)
				assert.ErrorIs(t, err, keyring.ErrCodec)
				return
			}
			assert.Equal(t, tc.Input, e.String())
		})
	}
}

func TestExpiryTOML(t *testing.T) {
	type doc struct {
		Expiry keyring.Expiry  `toml:"expiry"`
		Type   keyring.KeyType `toml:"type"`
	}
	var d doc
	require.NoError(t, toml.Unmarshal([]byte("expiry = \"2030/01/02\"\ntype = \"ed25519\"\n"), &d))
	assert.Equal(t, "2030/01/02", d.Expiry.String())
	assert.Equal(t, keyring.Ed25519, d.Type)

	raw, err := toml.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "2030/01/02")
	assert.Contains(t, string(raw), "Ed25519")
}

func TestParseKeyType(t *testing.T) {
	for input, expected := range map[string]keyring.KeyType{
		"Ed25519": keyring.Ed25519,
		"ED25519": keyring.Ed25519,
		"x25519":  keyring.X25519,
		"X25519":  keyring.X25519,
	} {
		kt, err := keyring.ParseKeyType(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, kt)
	}
	_, err := keyring.ParseKeyType("Curve25519")
	assert.ErrorIs(t, err, keyring.ErrUnknownKeyType)
	assert.ErrorIs(t, err, keyring.ErrCodec)
}
