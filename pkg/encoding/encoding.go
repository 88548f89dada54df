// Copyright 2022 Anapaya Systems
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

// Package encoding provides the text encodings used by the keyring: base64
// for records, hex and base58 for display and PEM for export.
package encoding

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Base64 is the encoding of all byte fields in key records and certificates.
var Base64 = base64.StdEncoding

// Supported output formats of EncodeBytes.
const (
	FormatHex          = "hex"
	FormatBase64       = "base64"
	FormatBase64URL    = "base64-url"
	FormatBase64Raw    = "base64-raw"
	FormatBase64URLRaw = "base64-url-raw"
	FormatBase58       = "base58"
)

// Formats lists the supported formats in the order they are documented.
var Formats = []string{
	FormatHex,
	FormatBase64,
	FormatBase64URL,
	FormatBase64Raw,
	FormatBase64URLRaw,
	FormatBase58,
}

var ErrUnsupportedFormat = errors.New("unsupported format")

// CheckEncodings returns an error if format is not supported.
func CheckEncodings(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return serrors.JoinNoStack(ErrUnsupportedFormat, nil,
		"format", format, "supported", strings.Join(Formats, "|"))
}

// EncodeBytes encodes b in the given format.
func EncodeBytes(b []byte, format string) (string, error) {
	switch format {
	case FormatHex:
		return hex.EncodeToString(b), nil
	case FormatBase64:
		return base64.StdEncoding.EncodeToString(b), nil
	case FormatBase64URL:
		return base64.URLEncoding.EncodeToString(b), nil
	case FormatBase64Raw:
		return base64.RawStdEncoding.EncodeToString(b), nil
	case FormatBase64URLRaw:
		return base64.RawURLEncoding.EncodeToString(b), nil
	case FormatBase58:
		return base58.Encode(b), nil
	default:
		return "", CheckEncodings(format)
	}
}

// DecodeBytes reverses EncodeBytes.
func DecodeBytes(s, format string) ([]byte, error) {
	var b []byte
	var err error
	switch format {
	case FormatHex:
		b, err = hex.DecodeString(s)
	case FormatBase64:
		b, err = base64.StdEncoding.DecodeString(s)
	case FormatBase64URL:
		b, err = base64.URLEncoding.DecodeString(s)
	case FormatBase64Raw:
		b, err = base64.RawStdEncoding.DecodeString(s)
	case FormatBase64URLRaw:
		b, err = base64.RawURLEncoding.DecodeString(s)
	case FormatBase58:
		b, err = base58.Decode(s)
	default:
		return nil, CheckEncodings(format)
	}
	if err != nil {
		return nil, serrors.Wrap("decoding", err, "format", format)
	}
	return b, nil
}
