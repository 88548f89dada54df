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
	"errors"

	"github.com/cckit/cck/pkg/private/serrors"
)

var (
	// ErrValidation indicates that an argument or a reconstructed key violates
	// a constraint, e.g., a primary flag on an agreement key.
	ErrValidation = errors.New("validation failed")
	// ErrCodec indicates a malformed text record or certificate.
	ErrCodec = errors.New("malformed record")
	// ErrProvider wraps failures of the underlying cryptographic primitives.
	ErrProvider = errors.New("crypto provider failure")
)

// Codec errors. All of them also match ErrCodec.
var (
	ErrMissingField    = errors.New("missing field")
	ErrLabelMismatch   = errors.New("label mismatch")
	ErrDecodeFailure   = errors.New("decoding failed")
	ErrUnknownKeyType  = errors.New("unknown key type")
	ErrMalformedExpiry = errors.New("malformed expiry")
)

func codecError(kind, cause error, errCtx ...any) error {
	return serrors.JoinNoStack(ErrCodec, serrors.JoinNoStack(kind, cause), errCtx...)
}

func validationError(msg string, errCtx ...any) error {
	return serrors.JoinNoStack(ErrValidation, nil, append([]any{"reason", msg}, errCtx...)...)
}
