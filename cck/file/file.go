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

// Package file contains helpers to read records and write command output.
package file

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Permissions of written files.
const (
	PrivatePerm os.FileMode = 0600
	PublicPerm  os.FileMode = 0644
)

// ErrTerminal indicates that secret material would be printed to a terminal.
var ErrTerminal = errors.New("refusing to write private key material to a terminal")

// Option is the type to add optional behavior changes.
type Option func(o *options)

type options struct {
	force bool
}

// WithForce overwrites an existing file, and allows writing secrets to a
// terminal.
func WithForce(force bool) Option {
	return func(o *options) {
		o.force = force
	}
}

func apply(opts []Option) options {
	var o options
	for _, option := range opts {
		option(&o)
	}
	return o
}

// WriteFile writes data to filename. An existing file is only replaced with
// WithForce.
func WriteFile(filename string, data []byte, perm os.FileMode, opts ...Option) error {
	options := apply(opts)

	info, err := os.Stat(filename)
	if errors.Is(err, os.ErrNotExist) {
		return os.WriteFile(filename, data, perm)
	}
	if err != nil {
		return serrors.Wrap("reading stat information", err)
	}
	if info.IsDir() {
		return serrors.New("file is a directory", "file", filename)
	}
	if !options.force {
		return serrors.JoinNoStack(os.ErrExist, nil, "file", filename)
	}
	if err := os.Remove(filename); err != nil {
		return serrors.Wrap("removing existing file", err)
	}
	return os.WriteFile(filename, data, perm)
}

// Output writes data to filename, or to w if filename is empty. Secret data
// is not written to a terminal unless WithForce is set.
func Output(w io.Writer, filename string, data []byte, secret bool, opts ...Option) error {
	if filename != "" {
		perm := PublicPerm
		if secret {
			perm = PrivatePerm
		}
		return WriteFile(filename, data, perm, opts...)
	}
	if secret && !apply(opts).force && IsTerminal(w) {
		return ErrTerminal
	}
	_, err := w.Write(data)
	return err
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Read reads the named file. The name - reads from r.
func Read(r io.Reader, filename string) ([]byte, error) {
	if filename == "-" {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, serrors.Wrap("reading standard input", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, serrors.Wrap("reading input file", err)
	}
	return raw, nil
}
