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

// Package flag contains pflag values for the keyring types.
package flag

import (
	"github.com/spf13/pflag"

	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/keyring"
)

type keyTypeVal keyring.KeyType

func (v *keyTypeVal) Set(val string) error {
	kt, err := keyring.ParseKeyType(val)
	if err != nil {
		return err
	}
	*v = keyTypeVal(kt)
	return nil
}

func (v *keyTypeVal) Type() string   { return "key-type" }
func (v *keyTypeVal) String() string { return keyring.KeyType(*v).String() }

type expiryVal keyring.Expiry

func (v *expiryVal) Set(val string) error {
	e, err := keyring.ParseExpiry(val)
	if err != nil {
		return err
	}
	*v = expiryVal(e)
	return nil
}

func (v *expiryVal) Type() string   { return "YYYY/MM/DD" }
func (v *expiryVal) String() string { return keyring.Expiry(*v).String() }

type formatVal string

func (v *formatVal) Set(val string) error {
	if err := encoding.CheckEncodings(val); err != nil {
		return err
	}
	*v = formatVal(val)
	return nil
}

func (v *formatVal) Type() string   { return "format" }
func (v *formatVal) String() string { return string(*v) }

// KeyTypeVar defines a key type flag. Values are parsed case-insensitively.
func KeyTypeVar(fs *pflag.FlagSet, p *keyring.KeyType, name string,
	value keyring.KeyType, usage string) {

	*p = value
	fs.Var((*keyTypeVal)(p), name, usage)
}

// ExpiryVar defines an expiry flag in the record format YYYY/MM/DD.
func ExpiryVar(fs *pflag.FlagSet, p *keyring.Expiry, name string,
	value keyring.Expiry, usage string) {

	*p = value
	fs.Var((*expiryVal)(p), name, usage)
}

// FormatVar defines a flag that selects one of the byte encodings.
func FormatVar(fs *pflag.FlagSet, p *string, name, value, usage string) {
	*p = value
	fs.Var((*formatVal)(p), name, usage)
}
