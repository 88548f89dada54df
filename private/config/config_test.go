// Copyright 2019 Anapaya Systems
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

package config_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/pkg/private/xtest"
	"github.com/cckit/cck/private/config"
)

type ringSection struct {
	Connection string `toml:"connection,omitempty"`
}

func (s *ringSection) InitDefaults() {
	if s.Connection == "" {
		s.Connection = "cck.db"
	}
}

func (s *ringSection) Validate() error {
	if s.Connection == "none" {
		return serrors.New("invalid connection")
	}
	return nil
}

func (s *ringSection) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, `
# Path of the ring database.
connection = "cck.db"
`)
}

func (s *ringSection) ConfigName() string { return "ring" }

type testConfig struct {
	Ring ringSection `toml:"ring,omitempty"`
}

func (c *testConfig) InitDefaults()   { config.InitAll(&c.Ring) }
func (c *testConfig) Validate() error { return config.ValidateAll(&c.Ring) }
func (c *testConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx, &c.Ring)
}

func TestSampleRoundTrip(t *testing.T) {
	var sample bytes.Buffer
	var cfg testConfig
	cfg.Sample(&sample, nil, nil)
	assert.Contains(t, sample.String(), "[ring]")

	var decoded testConfig
	require.NoError(t, config.Decode(sample.Bytes(), &decoded), sample.String())
	assert.Equal(t, "cck.db", decoded.Ring.Connection)
}

func TestDecodeUnknownField(t *testing.T) {
	var cfg testConfig
	err := config.Decode([]byte("[ring]\nconection = \"typo\"\n"), &cfg)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir, cleanF := xtest.MustTempDir("", "config")
	defer cleanF()

	testCases := map[string]struct {
		content      string
		expected     string
		ErrAssertion assert.ErrorAssertionFunc
	}{
		"defaults applied": {
			content:      "",
			expected:     "cck.db",
			ErrAssertion: assert.NoError,
		},
		"explicit value": {
			content:      "[ring]\nconnection = \"/tmp/ring.db\"\n",
			expected:     "/tmp/ring.db",
			ErrAssertion: assert.NoError,
		},
		"invalid value": {
			content:      "[ring]\nconnection = \"none\"\n",
			ErrAssertion: assert.Error,
		},
		"malformed toml": {
			content:      "[ring\n",
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			file := xtest.WriteFile(t, dir, xtest.SanitizedName(t)+".toml", tc.content)
			var cfg testConfig
			err := config.Load(file, &cfg)
			tc.ErrAssertion(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.expected, cfg.Ring.Connection)
		})
	}
	t.Run("missing file", func(t *testing.T) {
		var cfg testConfig
		assert.Error(t, config.Load(filepath.Join(dir, "missing.toml"), &cfg))
	})
}
