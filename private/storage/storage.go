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

// Package storage provides factories for the application storage backends.
package storage

import (
	"fmt"
	"io"

	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/config"
	"github.com/cckit/cck/private/storage/db"
	"github.com/cckit/cck/private/storage/ring"
	sqlitering "github.com/cckit/cck/private/storage/ring/sqlite"
)

// Backend indicates the database backend type.
type Backend string

const (
	// BackendSqlite indicates an sqlite backend.
	BackendSqlite Backend = "sqlite"
	// DefaultRingPath is the default connection string for the ring.
	DefaultRingPath = "cck.db"
)

const sample = `
# The connection string of the database. For sqlite this is the path of the
# database file. It is created if it does not exist. (default %s)
connection = "%s"

# The maximum number of idle connections. 0 keeps the driver default.
# (default 0)
max_idle_conns = 0
`

var _ (config.Config) = (*DBConfig)(nil)

// DBConfig is the configuration for the connection to a database.
type DBConfig struct {
	Connection   string `toml:"connection,omitempty"`
	MaxIdleConns int    `toml:"max_idle_conns,omitempty"`
}

// SetConnLimits sets the maximum number of idle connections based on the
// configuration. A limit of 0 means the Go default will be used.
func SetConnLimits(d db.LimitSetter, c DBConfig) {
	if c.MaxIdleConns != 0 {
		d.SetMaxIdleConns(c.MaxIdleConns)
	}
}

func (cfg *DBConfig) InitDefaults() {
	if cfg.Connection == "" {
		cfg.Connection = DefaultRingPath
	}
}

func (cfg *DBConfig) Validate() error {
	if cfg.MaxIdleConns < 0 {
		return serrors.New("max_idle_conns must not be negative",
			"max_idle_conns", cfg.MaxIdleConns)
	}
	return nil
}

// Sample writes a config sample to the writer.
func (cfg *DBConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, fmt.Sprintf(sample, DefaultRingPath, DefaultRingPath))
}

// ConfigName is the key in the toml file.
func (cfg *DBConfig) ConfigName() string {
	return "ring"
}

// NewRingStorage opens the ring configured by c. Every operation on the
// returned ring is traced and logged, and counted if m is not nil.
func NewRingStorage(c DBConfig, m *ring.Metrics) (ring.DB, error) {
	log.Debug("Connecting RingDB", "backend", BackendSqlite, "connection", c.Connection)
	db, err := sqlitering.New(c.Connection)
	if err != nil {
		return nil, err
	}
	SetConnLimits(db, c)
	return ring.WithMetrics(string(BackendSqlite), db, m), nil
}

// NewInMemoryRingStorage opens a ring that lives only as long as the process.
func NewInMemoryRingStorage(m *ring.Metrics) (ring.DB, error) {
	db, err := sqlitering.NewInMemory()
	if err != nil {
		return nil, err
	}
	return ring.WithMetrics(string(BackendSqlite), db, m), nil
}
