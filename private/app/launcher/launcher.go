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

// Package launcher wires configuration loading and logging setup into the
// root command of a command line application.
//
// Settings are merged from, in increasing precedence, the TOML config file,
// environment variables and command line flags. The merged settings are
// decoded into the typed configuration of the application before any
// subcommand runs.
package launcher

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/private/serrors"
	libconfig "github.com/cckit/cck/private/config"
)

// Configuration keys shared by all applications.
const (
	cfgConfigFile                = "config"
	cfgLogConsoleLevel           = "log.console.level"
	cfgLogConsoleFormat          = "log.console.format"
	cfgLogConsoleStacktraceLevel = "log.console.stacktrace_level"
)

// LoggingConfig is implemented by configurations that contain a logging
// section. The launcher sets up logging from it.
type LoggingConfig interface {
	LogConfig() log.Config
}

// Application models a command line application.
type Application struct {
	// TOMLConfig holds the Go data structure for the application-specific
	// TOML configuration. It is loaded before any subcommand runs.
	TOMLConfig libconfig.Config

	// ShortName is the short description of the application.
	ShortName string

	// EnvPrefix is the prefix of the environment variables that override
	// configuration keys. If empty, the upper-cased executable name is used.
	EnvPrefix string

	// ErrorWriter specifies where error output should be printed. If nil,
	// os.Stderr is used.
	ErrorWriter io.Writer

	cmd    *cobra.Command
	config *viper.Viper
}

// Command creates the root command. Subcommands added to it observe the
// loaded TOMLConfig.
func (a *Application) Command(executable string) *cobra.Command {
	a.cmd = &cobra.Command{
		Use:   executable,
		Short: a.ShortName,
		Args:  cobra.NoArgs,
		// Errors are printed by Run.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
	}
	flags := a.cmd.PersistentFlags()
	flags.String("config", "", "Configuration file (TOML)")
	flags.String("log-level", "", "Console logging level (debug|info|error)")
	flags.String("log-format", "", "Console logging format (human|json)")

	prefix := a.EnvPrefix
	if prefix == "" {
		prefix = strings.ToUpper(executable)
	}
	a.config = viper.New()
	a.config.SetEnvPrefix(prefix)
	a.config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.config.AutomaticEnv()
	a.config.SetDefault(cfgLogConsoleStacktraceLevel, log.DefaultStacktraceLevel)
	bindings := map[string]string{
		cfgConfigFile:       "config",
		cfgLogConsoleLevel:  "log-level",
		cfgLogConsoleFormat: "log-format",
	}
	for key, name := range bindings {
		if err := a.config.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %s", name, err))
		}
	}
	return a.cmd
}

// BindFlag binds flag to the configuration key. A set flag takes precedence
// over the environment and the config file. Each key can be bound once.
func (a *Application) BindFlag(key string, flag *pflag.Flag) {
	if err := a.config.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %q: %s", key, err))
	}
}

// Run executes the root command with os.Args. It exits the application with a
// non-zero code if the command fails.
func (a *Application) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(a.getErrorWriter(), "Error: %s\n", err)
		os.Exit(1)
	}
}

func (a *Application) load() error {
	if file := a.config.GetString(cfgConfigFile); file != "" {
		a.config.SetConfigType("toml")
		a.config.SetConfigFile(file)
		if err := a.config.ReadInConfig(); err != nil {
			return serrors.Wrap("loading config from file", err, "file", file)
		}
	}
	settings := a.config.AllSettings()
	delete(settings, cfgConfigFile)
	raw, err := toml.Marshal(settings)
	if err != nil {
		return serrors.Wrap("encoding merged config", err)
	}
	if err := libconfig.Decode(raw, a.TOMLConfig); err != nil {
		return serrors.Wrap("decoding config", err, "file", a.config.GetString(cfgConfigFile))
	}
	a.TOMLConfig.InitDefaults()
	if err := a.TOMLConfig.Validate(); err != nil {
		return serrors.Wrap("validating config", err)
	}
	if lc, ok := a.TOMLConfig.(LoggingConfig); ok {
		if err := log.Setup(lc.LogConfig()); err != nil {
			return serrors.Wrap("initialize logging", err)
		}
	}
	log.Debug("Config loaded", "file", a.config.GetString(cfgConfigFile))
	return nil
}

func (a *Application) getErrorWriter() io.Writer {
	if a.ErrorWriter != nil {
		return a.ErrorWriter
	}
	return os.Stderr
}
