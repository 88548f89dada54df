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

// Package config contains the configuration of the cck tool.
package config

import (
	"io"

	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/private/config"
	"github.com/cckit/cck/private/storage"
)

var _ config.Config = (*Config)(nil)

// Config is the configuration of the cck tool.
type Config struct {
	Logging log.Config       `toml:"log,omitempty"`
	Ring    storage.DBConfig `toml:"ring,omitempty"`
	PEM     PEM              `toml:"pem,omitempty"`
}

// InitDefaults initializes the default values of all sections.
func (cfg *Config) InitDefaults() {
	config.InitAll(&cfg.Logging, &cfg.Ring, &cfg.PEM)
}

// Validate validates all sections.
func (cfg *Config) Validate() error {
	return config.ValidateAll(&cfg.Logging, &cfg.Ring, &cfg.PEM)
}

// Sample writes a sample of the full configuration.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, nil,
		&cfg.Logging,
		&cfg.Ring,
		&cfg.PEM,
	)
}

// LogConfig returns the logging section.
func (cfg *Config) LogConfig() log.Config {
	return cfg.Logging
}

var _ config.Config = (*PEM)(nil)

// PEM configures how PEM blocks are written.
type PEM struct {
	// LineEnding is lf, crlf or native. (default native)
	LineEnding string `toml:"line_ending,omitempty"`
}

func (p *PEM) InitDefaults() {
	if p.LineEnding == "" {
		p.LineEnding = "native"
	}
}

func (p *PEM) Validate() error {
	_, err := encoding.ParseLineEnding(p.LineEnding)
	return err
}

// Ending returns the configured line ending. It must only be called on a
// validated configuration.
func (p *PEM) Ending() encoding.LineEnding {
	le, err := encoding.ParseLineEnding(p.LineEnding)
	if err != nil {
		panic(err)
	}
	return le
}

func (p *PEM) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, pemSample)
}

func (p *PEM) ConfigName() string {
	return "pem"
}
