// Copyright 2025 ETH Zurich, Anapaya Systems
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

// Package db contains the sqlite plumbing shared by the storage backends.
//
// The driver is selected at build time. By default the pure Go
// modernc.org/sqlite driver is used. Building with the sqlite_mattn tag
// selects github.com/mattn/go-sqlite3 instead.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Sqler contains the methods of both sql.DB and sql.Tx that the backends use.
type Sqler interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LimitSetter allows setting the connection limits of a database. The number
// of open connections is fixed to one for sqlite.
type LimitSetter interface {
	SetMaxIdleConns(maxIdleConns int)
}

// SqliteConfig allows configuring the sqlite database instance.
type SqliteConfig struct {
	// InMemory opens a named in-memory database. The path is used as the
	// name and must be unique within the process.
	InMemory bool
}

// NewSqlite opens the sqlite database at path. The database is limited to a
// single open connection: all statements of a backend are serialized on it.
func NewSqlite(path string, cfg *SqliteConfig) (*Sqlite, error) {
	c := func() SqliteConfig {
		if cfg != nil {
			return *cfg
		}
		return SqliteConfig{}
	}()

	// :memory: is ambiguous. Every new connection would get a fresh database.
	if strings.Contains(path, ":memory:") {
		return nil, serrors.New("use explicitly named memory database", "path", path)
	}
	noFile, ok := strings.CutPrefix(path, "file:")

	connParams := make(url.Values)
	addPragmas(connParams)
	if c.InMemory {
		if err := registerMemoryDB(noFile); err != nil {
			return nil, err
		}
		connParams.Add("mode", "memory")
		connParams.Add("cache", "shared")
	}

	connUrl := path + "?" + connParams.Encode()
	if !ok {
		connUrl = "file:" + connUrl
	}

	db, err := sql.Open(driverName(), connUrl)
	if err != nil {
		if c.InMemory {
			unregisterMemoryDB(noFile)
		}
		return nil, serrors.Wrap("opening database", err, "path", path)
	}
	db.SetMaxOpenConns(1)
	// The in-memory database lives as long as its last connection.
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	// sql.Open does not touch the database. Ping fails early on e.g. an
	// unwritable path.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		if c.InMemory {
			unregisterMemoryDB(noFile)
		}
		return nil, serrors.Wrap("connecting to database", err, "path", path)
	}

	s := &Sqlite{DB: db}
	if c.InMemory {
		s.memoryName = noFile
	}
	return s, nil
}

// Sqlite is an sqlite database with a single connection.
type Sqlite struct {
	*sql.DB
	memoryName string
}

// Setup applies the schema if the database is new. An existing database
// must have been created with schemaVersion.
func (db *Sqlite) Setup(schema string, schemaVersion int) error {
	var existingVersion int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&existingVersion); err != nil {
		return serrors.Wrap("checking database schema version", err)
	}
	switch {
	case existingVersion == 0:
		if _, err := db.Exec(schema); err != nil {
			return serrors.Wrap("applying schema", err)
		}
		_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
		if err != nil {
			return serrors.Wrap("writing schema version", err)
		}
		return nil
	case existingVersion != schemaVersion:
		return serrors.New("database schema version mismatch",
			"expected", schemaVersion, "actual", existingVersion)
	default:
		return nil
	}
}

// Checkpoint runs a WAL checkpoint with FULL mode.
func (db *Sqlite) Checkpoint(ctx context.Context) (CheckpointStats, error) {
	return Checkpoint(ctx, db.DB, "FULL")
}

type CheckpointStats struct {
	Busy         int
	LogFrames    int
	Checkpointed int
}

// Checkpoint runs a WAL checkpoint with the given mode (PASSIVE, FULL, RESTART, TRUNCATE). It
// returns the three integers that SQLite reports:
//
//	busy        = number of frames not checkpointed due to active readers
//	log         = total frames in the WAL
//	checkpointed= frames actually checkpointed
//
// Databases that are not in WAL mode report -1 for both frame counts.
func Checkpoint(ctx context.Context, db *sql.DB, mode string) (CheckpointStats, error) {
	var busy, logFrames, checkpointed int
	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s);", mode)
	if err := db.QueryRowContext(ctx, query).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return CheckpointStats{}, serrors.Wrap("performing checkpoint", err, "mode", mode)
	}
	return CheckpointStats{
		Busy:         busy,
		LogFrames:    logFrames,
		Checkpointed: checkpointed,
	}, nil
}

// Close flushes the write-ahead log into the database and closes it. Errors
// of both steps are reported.
func (db *Sqlite) Close() error {
	var errs serrors.List
	if _, err := db.Checkpoint(context.Background()); err != nil {
		errs = append(errs, err)
	}
	if err := db.DB.Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing database", err))
	}
	if db.memoryName != "" {
		unregisterMemoryDB(db.memoryName)
	}
	return errs.ToError()
}

// memoryDBCheck prevents opening two in-memory databases with the same name.
// Such databases would share the same underlying database.
var memoryDBCheck = struct {
	mtx sync.Mutex
	dbs map[string]struct{}
}{
	dbs: make(map[string]struct{}),
}

func registerMemoryDB(name string) error {
	memoryDBCheck.mtx.Lock()
	defer memoryDBCheck.mtx.Unlock()
	if _, ok := memoryDBCheck.dbs[name]; ok {
		return serrors.New("memory database already exists", "name", name)
	}
	memoryDBCheck.dbs[name] = struct{}{}
	return nil
}

func unregisterMemoryDB(name string) {
	memoryDBCheck.mtx.Lock()
	defer memoryDBCheck.mtx.Unlock()
	delete(memoryDBCheck.dbs, name)
}

var memoryDBSeq atomic.Uint64

// UniqueMemoryName returns a name for an in-memory database that is not used
// by any other database of the process.
func UniqueMemoryName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, memoryDBSeq.Add(1))
}
