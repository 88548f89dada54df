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

package sqlite

const (
	// SchemaVersion is the version of the SQLite schema understood by this backend.
	// Whenever changes to the schema are made, this version number should be increased
	// to prevent data corruption between incompatible database schemas.
	SchemaVersion = 1
	// Schema is the SQLite database layout.
	Schema = `CREATE TABLE IF NOT EXISTS users(
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS private_keys(
		user_id TEXT NOT NULL REFERENCES users(id),
		is_primary INTEGER NOT NULL,
		key_type TEXT NOT NULL,
		expiry TEXT NOT NULL,
		private_key BLOB NOT NULL,
		fingerprint BLOB NOT NULL,
		signature BLOB
	);

	CREATE TABLE IF NOT EXISTS public_keys(
		user_id TEXT NOT NULL REFERENCES users(id),
		is_primary INTEGER NOT NULL,
		key_type TEXT NOT NULL,
		expiry TEXT NOT NULL,
		public_key BLOB NOT NULL,
		fingerprint BLOB NOT NULL,
		signature BLOB
	);

	CREATE INDEX IF NOT EXISTS users_email_idx ON users(email);
	CREATE INDEX IF NOT EXISTS users_name_idx ON users(name);
	CREATE INDEX IF NOT EXISTS private_keys_fingerprint_idx ON private_keys(fingerprint);
	CREATE INDEX IF NOT EXISTS private_keys_user_id_idx ON private_keys(user_id);
	CREATE INDEX IF NOT EXISTS public_keys_fingerprint_idx ON public_keys(fingerprint);
	CREATE INDEX IF NOT EXISTS public_keys_user_id_idx ON public_keys(user_id);
	`
)
