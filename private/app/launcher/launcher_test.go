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

package launcher_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/pkg/private/xtest"
	"github.com/cckit/cck/private/app/launcher"
)

func newApp(t *testing.T, cfg *config.Config) (*launcher.Application, *cobra.Command) {
	app := &launcher.Application{
		TOMLConfig:  cfg,
		ShortName:   "test",
		EnvPrefix:   "CCKTEST",
		ErrorWriter: &bytes.Buffer{},
	}
	root := app.Command("cck")
	root.PersistentFlags().String("ring", "", "ring")
	app.BindFlag("ring.connection", root.PersistentFlags().Lookup("ring"))
	root.AddCommand(&cobra.Command{
		Use:  "noop",
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return app, root
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := xtest.WriteFile(t, dir, "cck.toml", `
[log.console]
level = "error"

[ring]
connection = "from-file.db"
max_idle_conns = 3

[pem]
line_ending = "crlf"
`)

	testCases := map[string]struct {
		Args         []string
		Env          map[string]string
		ErrAssertion assert.ErrorAssertionFunc
		Expected     func(t *testing.T, cfg *config.Config)
	}{
		"defaults": {
			Args:         []string{"noop"},
			ErrAssertion: assert.NoError,
			Expected: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "info", cfg.Logging.Console.Level)
				assert.Equal(t, "cck.db", cfg.Ring.Connection)
			},
		},
		"file": {
			Args:         []string{"noop", "--config", file},
			ErrAssertion: assert.NoError,
			Expected: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "error", cfg.Logging.Console.Level)
				assert.Equal(t, "from-file.db", cfg.Ring.Connection)
				assert.Equal(t, 3, cfg.Ring.MaxIdleConns)
				assert.Equal(t, "crlf", cfg.PEM.LineEnding)
			},
		},
		"flags override file": {
			Args: []string{"noop", "--config", file, "--ring", "from-flag.db",
				"--log-level", "debug"},
			ErrAssertion: assert.NoError,
			Expected: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "debug", cfg.Logging.Console.Level)
				assert.Equal(t, "from-flag.db", cfg.Ring.Connection)
				assert.Equal(t, 3, cfg.Ring.MaxIdleConns)
			},
		},
		"env overrides file": {
			Args:         []string{"noop", "--config", file},
			Env:          map[string]string{"CCKTEST_RING_CONNECTION": "from-env.db"},
			ErrAssertion: assert.NoError,
			Expected: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "from-env.db", cfg.Ring.Connection)
			},
		},
		"missing file": {
			Args:         []string{"noop", "--config", filepath.Join(dir, "missing.toml")},
			ErrAssertion: assert.Error,
		},
		"invalid value": {
			Args:         []string{"noop", "--log-level", "trace"},
			ErrAssertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.Env {
				t.Setenv(k, v)
			}
			var cfg config.Config
			_, root := newApp(t, &cfg)
			root.SetArgs(tc.Args)
			err := root.Execute()
			tc.ErrAssertion(t, err)
			if tc.Expected != nil {
				tc.Expected(t, &cfg)
			}
		})
	}
}

func TestUnknownKey(t *testing.T) {
	file := xtest.WriteFile(t, t.TempDir(), "cck.toml", "[ring]\nunknown = 1\n")
	var cfg config.Config
	_, root := newApp(t, &cfg)
	root.SetArgs([]string{"noop", "--config", file})
	require.Error(t, root.Execute())
}
