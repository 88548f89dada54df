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

package keyring

import (
	"slices"
	"strings"

	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/private/serrors"
)

// Labels of the text record fields.
const (
	LabelPrimary     = "Primary"
	LabelKeyType     = "KeyType"
	LabelExpiry      = "Expiry"
	LabelPrivateKey  = "PrivateKey"
	LabelPublicKey   = "PublicKey"
	LabelFingerprint = "Fingerprint"
	LabelSignature   = "Signature"
)

// noSignature is the signature value of keys without a signature.
const noSignature = "None"

// recordFields is the number of field lines of a record.
const recordFields = 6

// Encode returns the canonical text record of k:
//
//	Primary:false
//	KeyType:X25519
//	Expiry:2030/01/31
//	PrivateKey:<base64>
//	Fingerprint:<base64>
//	Signature:<base64 or None>
//
// Every line is terminated by a newline and the record ends with a blank
// line.
func Encode(k AsymmetricKey) string {
	keyLabel := LabelPublicKey
	if k.IsPrivate() {
		keyLabel = LabelPrivateKey
	}
	sig := noSignature
	if s := k.Signature(); len(s) != 0 {
		sig = encoding.Base64.EncodeToString(s)
	}
	primary := "false"
	if k.IsPrimary() {
		primary = "true"
	}
	var b strings.Builder
	writeField(&b, LabelPrimary, primary)
	writeField(&b, LabelKeyType, k.Type().String())
	writeField(&b, LabelExpiry, k.Expiry().String())
	writeField(&b, keyLabel, encoding.Base64.EncodeToString(k.Bytes()))
	writeField(&b, LabelFingerprint, encoding.Base64.EncodeToString(k.Fingerprint()))
	writeField(&b, LabelSignature, sig)
	b.WriteString("\n")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("\n")
}

// DecodePrivateKey decodes a private key record.
func DecodePrivateKey(s string) (*PrivateKey, error) {
	label, params, err := decodeRecord(s)
	if err != nil {
		return nil, err
	}
	if label != LabelPrivateKey {
		return nil, codecError(ErrLabelMismatch, nil, "expected", LabelPrivateKey,
			"actual", label, "line", 4)
	}
	k, err := PrivateKeyFrom(params)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrCodec, err)
	}
	return k, nil
}

// DecodePublicKey decodes a public key record.
func DecodePublicKey(s string) (*PublicKey, error) {
	label, params, err := decodeRecord(s)
	if err != nil {
		return nil, err
	}
	if label != LabelPublicKey {
		return nil, codecError(ErrLabelMismatch, nil, "expected", LabelPublicKey,
			"actual", label, "line", 4)
	}
	k, err := PublicKeyFrom(params)
	if err != nil {
		return nil, serrors.JoinNoStack(ErrCodec, err)
	}
	return k, nil
}

// Decode decodes a private or a public key record. The result is a
// *PrivateKey or a *PublicKey depending on the key label of the record.
func Decode(s string) (AsymmetricKey, error) {
	label, params, err := decodeRecord(s)
	if err != nil {
		return nil, err
	}
	var k AsymmetricKey
	switch label {
	case LabelPrivateKey:
		k, err = PrivateKeyFrom(params)
	default:
		k, err = PublicKeyFrom(params)
	}
	if err != nil {
		return nil, serrors.JoinNoStack(ErrCodec, err)
	}
	return k, nil
}

// lineReader hands out the lines of a record in order.
type lineReader struct {
	lines []string
	pos   int
}

// next returns the value of the next line. The label of the line must be one
// of labels.
func (r *lineReader) next(labels ...string) (string, string, error) {
	lineNo := r.pos + 1
	if r.pos >= len(r.lines) || r.lines[r.pos] == "" {
		return "", "", codecError(ErrMissingField, nil, "field", labels[0], "line", lineNo)
	}
	line := r.lines[r.pos]
	r.pos++
	label, value, ok := strings.Cut(line, ":")
	if !ok || !slices.Contains(labels, label) {
		return "", "", codecError(ErrLabelMismatch, nil,
			"expected", strings.Join(labels, "|"), "actual", label, "line", lineNo)
	}
	if value == "" {
		return "", "", codecError(ErrMissingField, nil, "field", label, "line", lineNo)
	}
	return label, value, nil
}

func (r *lineReader) bytes(label string) ([]byte, error) {
	_, value, err := r.next(label)
	if err != nil {
		return nil, err
	}
	return decodeBase64(label, value, r.pos)
}

func decodeBase64(label, value string, lineNo int) ([]byte, error) {
	b, err := encoding.Base64.DecodeString(value)
	if err != nil {
		return nil, codecError(ErrDecodeFailure, err, "field", label, "line", lineNo)
	}
	return b, nil
}

func decodeRecord(s string) (string, KeyParams, error) {
	r := lineReader{lines: strings.Split(s, "\n")}
	var p KeyParams

	_, primary, err := r.next(LabelPrimary)
	if err != nil {
		return "", p, err
	}
	switch primary {
	case "true":
		p.Primary = true
	case "false":
	default:
		return "", p, codecError(ErrDecodeFailure, nil, "field", LabelPrimary,
			"value", primary, "line", r.pos)
	}

	_, keyType, err := r.next(LabelKeyType)
	if err != nil {
		return "", p, err
	}
	if p.Type, err = ParseKeyType(keyType); err != nil {
		return "", p, serrors.WrapNoStack("decoding field", err, "line", r.pos)
	}

	_, expiry, err := r.next(LabelExpiry)
	if err != nil {
		return "", p, err
	}
	if p.Expiry, err = ParseExpiry(expiry); err != nil {
		return "", p, serrors.WrapNoStack("decoding field", err, "line", r.pos)
	}

	keyLabel, key, err := r.next(LabelPrivateKey, LabelPublicKey)
	if err != nil {
		return "", p, err
	}
	if p.Bytes, err = decodeBase64(keyLabel, key, r.pos); err != nil {
		return "", p, err
	}

	if p.Fingerprint, err = r.bytes(LabelFingerprint); err != nil {
		return "", p, err
	}

	_, sig, err := r.next(LabelSignature)
	if err != nil {
		return "", p, err
	}
	if sig != noSignature {
		if p.Signature, err = decodeBase64(LabelSignature, sig, r.pos); err != nil {
			return "", p, err
		}
	}

	// A terminated record splits into the field lines, the blank line and the
	// empty remainder after the final newline.
	rest := r.lines[recordFields:]
	switch {
	case len(rest) < 2 || rest[0] != "":
		return "", p, codecError(ErrMissingField, nil, "field", "blank line",
			"line", recordFields+1)
	case len(rest) > 2 || rest[1] != "":
		return "", p, codecError(ErrLabelMismatch, nil, "reason", "trailing data",
			"line", recordFields+2)
	}
	return keyLabel, p, nil
}
