// Copyright 2024 CCK Authors
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

// Package compress provides raw DEFLATE compression without zlib or gzip
// framing.
package compress

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Level is a compression level between 1 and 9.
type Level int

const (
	Fast   Level = 1
	Normal Level = 6
	Best   Level = 9
)

// DefaultLevel is used when the zero Level is passed.
const DefaultLevel = Normal

// MaxDecompressedSize bounds the output of Decompress.
const MaxDecompressedSize = 64 << 20

var ErrInvalidLevel = errors.New("invalid compression level")

// Validate checks that l is in the range 1 to 9. The zero value is accepted
// and means DefaultLevel.
func (l Level) Validate() error {
	if l == 0 || (l >= Fast && l <= Best) {
		return nil
	}
	return serrors.JoinNoStack(ErrInvalidLevel, nil, "level", int(l))
}

// Compress compresses data with the given level.
func Compress(level Level, data []byte) ([]byte, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	if level == 0 {
		level = DefaultLevel
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, int(level))
	if err != nil {
		return nil, serrors.Wrap("creating deflate writer", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, serrors.Wrap("compressing", err)
	}
	if err := w.Close(); err != nil {
		return nil, serrors.Wrap("flushing deflate writer", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data. Output larger than MaxDecompressedSize is an
// error.
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, serrors.Wrap("decompressing", err)
	}
	if len(out) > MaxDecompressedSize {
		return nil, serrors.New("decompressed data too large", "max", MaxDecompressedSize)
	}
	return out, nil
}
