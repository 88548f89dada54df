// Copyright 2019 Anapaya Systems
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

package encoding

import (
	"bytes"
	"encoding/pem"
	"errors"
	"runtime"
	"strings"

	"github.com/cckit/cck/pkg/private/serrors"
)

// PEM block types.
const (
	LabelPrivateKey    = "PRIVATE KEY"
	LabelPublicKey     = "PUBLIC KEY"
	LabelCCKPrivateKey = "CCK PRIVATE KEY"
	LabelCCKPublicKey  = "CCK PUBLIC KEY"
	LabelCCKMessage    = "CCK MESSAGE"
)

// LineEnding is the line terminator written by EncodePEM.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

var ErrPEM = errors.New("invalid PEM data")

// DefaultLineEnding returns the native line ending of the running platform.
func DefaultLineEnding() LineEnding {
	if runtime.GOOS == "windows" {
		return CRLF
	}
	return LF
}

// ParseLineEnding parses "lf", "crlf" or "native".
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	case "", "native":
		return DefaultLineEnding(), nil
	default:
		return "", serrors.New("unknown line ending", "value", s)
	}
}

// String returns the configuration name of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	default:
		return "unknown"
	}
}

// EncodePEM encodes data in a PEM block of the given type.
func EncodePEM(label string, data []byte, le LineEnding) ([]byte, error) {
	if le != LF && le != CRLF {
		return nil, serrors.New("unsupported line ending", "value", []byte(le))
	}
	var buf bytes.Buffer
	if err := pem.Encode(&buf, &pem.Block{Type: label, Bytes: data}); err != nil {
		return nil, serrors.Wrap("encoding PEM", err, "type", label)
	}
	if le == LF {
		return buf.Bytes(), nil
	}
	return bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte(le)), nil
}

// DecodePEM decodes the first PEM block in raw. It fails if the block type
// is not one of labels. The block type is returned alongside the content.
func DecodePEM(raw []byte, labels ...string) (string, []byte, error) {
	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	block, _ := pem.Decode(normalized)
	if block == nil {
		return "", nil, serrors.JoinNoStack(ErrPEM, nil, "reason", "no PEM block found")
	}
	for _, l := range labels {
		if block.Type == l {
			return block.Type, block.Bytes, nil
		}
	}
	return "", nil, serrors.JoinNoStack(ErrPEM, nil,
		"reason", "unexpected block type", "type", block.Type)
}
