// Copyright 2023 SCION Association
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

//go:build !sqlite_mattn

package db

import (
	"net/url"

	_ "modernc.org/sqlite" // sqlite driver
)

// addPragmas modifies the given URL query so it can be used to make the
// correct uri connection path for this sqlite implementation. The
// modifications turn on foreign keys and WAL journal mode for every
// connection.
func addPragmas(q url.Values) {
	// Transactions take the write lock when they start. An upgraded DEFERRED
	// transaction fails with SQLITE_BUSY without respecting busy_timeout.
	q.Add("_txlock", "immediate")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(1000)")
	// WAL mode is safe from corruption with synchronous=NORMAL.
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(1)")
}

func driverName() string {
	return "sqlite"
}
