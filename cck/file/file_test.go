// Copyright 2021 Anapaya Systems
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

package file_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/cck/file"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	testCases := map[string]struct {
		Prepare      func(t *testing.T)
		Filename     string
		Perm         os.FileMode
		Opts         []file.Option
		ErrAssertion assert.ErrorAssertionFunc
		Validate     func(t *testing.T, expected []byte)
	}{
		"dir does not exist": {
			Filename:     filepath.Join(dir, "inexistent", "file"),
			Perm:         0666,
			ErrAssertion: assert.Error,
		},
		"file exist": {
			Filename: filepath.Join(dir, "existing"),
			Prepare: func(t *testing.T) {
				err := os.WriteFile(filepath.Join(dir, "existing"), []byte("data"), 0666)
				require.NoError(t, err)
			},
			Perm: 0666,
			ErrAssertion: func(t assert.TestingT, err error, _ ...any) bool {
				return assert.ErrorIs(t, err, os.ErrExist)
			},
			Validate: func(t *testing.T, expected []byte) {
				raw, err := os.ReadFile(filepath.Join(dir, "existing"))
				require.NoError(t, err)
				require.Equal(t, []byte("data"), raw)
			},
		},
		"file is dir": {
			Filename: filepath.Join(dir, "is-dir"),
			Prepare: func(t *testing.T) {
				require.NoError(t, os.Mkdir(filepath.Join(dir, "is-dir"), 0777))
			},
			Perm:         0666,
			ErrAssertion: assert.Error,
		},
		"file exist force": {
			Filename: filepath.Join(dir, "existing-force"),
			Prepare: func(t *testing.T) {
				err := os.WriteFile(filepath.Join(dir, "existing-force"), []byte("data"), 0666)
				require.NoError(t, err)
			},
			Perm:         0600,
			ErrAssertion: assert.NoError,
			Opts:         []file.Option{file.WithForce(true)},
			Validate: func(t *testing.T, expected []byte) {
				raw, err := os.ReadFile(filepath.Join(dir, "existing-force"))
				require.NoError(t, err)
				require.Equal(t, expected, raw)
			},
		},
		"new file": {
			Filename:     filepath.Join(dir, "new"),
			Perm:         0644,
			ErrAssertion: assert.NoError,
			Validate: func(t *testing.T, expected []byte) {
				raw, err := os.ReadFile(filepath.Join(dir, "new"))
				require.NoError(t, err)
				require.Equal(t, expected, raw)
			},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if tc.Prepare != nil {
				tc.Prepare(t)
			}
			data := []byte("new content")
			err := file.WriteFile(tc.Filename, data, tc.Perm, tc.Opts...)
			tc.ErrAssertion(t, err)
			if tc.Validate != nil {
				tc.Validate(t, data)
			}
		})
	}
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, file.Output(&buf, "", []byte("secret"), true))
	assert.Equal(t, "secret", buf.String())
	assert.False(t, file.IsTerminal(&buf))

	name := filepath.Join(t.TempDir(), "private.cck")
	require.NoError(t, file.Output(&buf, name, []byte("secret"), true))
	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, file.PrivatePerm, info.Mode().Perm())
}

func TestRead(t *testing.T) {
	raw, err := file.Read(strings.NewReader("from stdin"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(raw))

	_, err = file.Read(nil, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
