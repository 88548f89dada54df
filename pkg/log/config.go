// Copyright 2020 Anapaya Systems
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

package log

import (
	"io"

	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/config"
)

const (
	// DefaultConsoleLevel is the default log level for the console.
	DefaultConsoleLevel = "info"
	// DefaultStacktraceLevel is the default level above which stack traces
	// are attached to log entries.
	DefaultStacktraceLevel = "none"
)

const consoleSample = `
# Console logging level (debug|info|error). (default info)
level = "info"

# Logging format (human|json). (default human)
format = "human"

# Stack trace level (debug|info|error|none). (default none)
stacktrace_level = "none"

# Disable caller information in log entries. (default false)
disable_caller = false
`

// Config is the configuration for the logger.
type Config struct {
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields in cfg to their default values.
func (c *Config) InitDefaults() {
	config.InitAll(&c.Console)
}

// Validate checks the console configuration.
func (c *Config) Validate() error {
	return config.ValidateAll(&c.Console)
}

// Sample writes the sample configuration.
func (c *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, nil, &c.Console)
}

// ConfigName returns the name of the section.
func (c *Config) ConfigName() string {
	return "log"
}

// ConsoleConfig is the config for the console logger.
type ConsoleConfig struct {
	// Level of console logging. Defaults to DefaultConsoleLevel.
	Level string `toml:"level,omitempty"`
	// Format of the console logging (human|json). Defaults to human.
	Format string `toml:"format,omitempty"`
	// StacktraceLevel sets from which level stacktraces are included.
	StacktraceLevel string `toml:"stacktrace_level,omitempty"`
	// DisableCaller suppresses caller information.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

// InitDefaults populates unset fields.
func (c *ConsoleConfig) InitDefaults() {
	if c.Level == "" {
		c.Level = DefaultConsoleLevel
	}
	if c.Format == "" {
		c.Format = "human"
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = DefaultStacktraceLevel
	}
}

// Validate checks that the levels and the format are known.
func (c *ConsoleConfig) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	if c.StacktraceLevel != "none" {
		if _, err := ParseLevel(c.StacktraceLevel); err != nil {
			return err
		}
	}
	switch c.Format {
	case "human", "json":
	default:
		return serrors.New("unsupported log format", "format", c.Format)
	}
	return nil
}

// Sample writes the sample configuration for the console logger.
func (c *ConsoleConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, consoleSample)
}

// ConfigName returns the name of the section.
func (c *ConsoleConfig) ConfigName() string {
	return "console"
}
