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
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/keyring"
)

func TestNewUser(t *testing.T) {
	u, err := keyring.NewUser("alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Len(t, u.ID, keyring.UserIDLength)
	_, err = hex.DecodeString(u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice <alice@example.com>", u.String())

	other, err := keyring.NewUser("alice", "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, u.ID, other.ID)
}

func TestNewUserEmail(t *testing.T) {
	testCases := map[string]struct {
		Email        string
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"simple":         {Email: "bob@example.com", ErrAssertion: assert.NoError},
		"plus and dots":  {Email: "bob.smith+keys@mail.example.org", ErrAssertion: assert.NoError},
		"hyphen domain":  {Email: "bob@ex-ample.co", ErrAssertion: assert.NoError},
		"no at":          {Email: "bob.example.com", ErrAssertion: assert.Error},
		"no tld":         {Email: "bob@example", ErrAssertion: assert.Error},
		"empty local":    {Email: "@example.com", ErrAssertion: assert.Error},
		"space":          {Email: "bob smith@example.com", ErrAssertion: assert.Error},
		"two ats":        {Email: "bob@@example.com", ErrAssertion: assert.Error},
		"empty":          {Email: "", ErrAssertion: assert.Error},
		"display format": {Email: "Bob <bob@example.com>", ErrAssertion: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := keyring.NewUser("bob", tc.Email)
			tc.ErrAssertion(t, err)
			if err != nil {
				assert.ErrorIs(t, err, keyring.ErrValidation)
			}
		})
	}
}

func TestUserFrom(t *testing.T) {
	u, err := keyring.NewUser("carol", "carol@example.com")
	require.NoError(t, err)
	got, err := keyring.UserFrom(u.ID, u.Name, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = keyring.UserFrom("abc", u.Name, u.Email)
	assert.ErrorIs(t, err, keyring.ErrValidation)
	_, err = keyring.UserFrom(u.ID, u.Name, "carol")
	assert.ErrorIs(t, err, keyring.ErrValidation)
}
