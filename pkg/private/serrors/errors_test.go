// Copyright 2016 ETH Zurich
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

package serrors_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cckit/cck/pkg/private/serrors"
)

type testErrType struct {
	msg string
}

func (e *testErrType) Error() string {
	return e.msg
}

type timeoutErr struct {
	timeout bool
	cause   error
}

func (e *timeoutErr) Error() string { return "timeout" }
func (e *timeoutErr) Timeout() bool { return e.timeout }
func (e *timeoutErr) Unwrap() error { return e.cause }

func TestIsTimeout(t *testing.T) {
	assert.False(t, serrors.IsTimeout(serrors.New("no timeout")))
	assert.True(t, serrors.IsTimeout(serrors.Wrap("timeout", &timeoutErr{timeout: true})))
	outer := serrors.Wrap("outer", &timeoutErr{cause: &timeoutErr{timeout: true}})
	assert.False(t, serrors.IsTimeout(outer))
}

func TestWrap(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		err := serrors.New("simple err")
		wrapped := serrors.Wrap("msg", err, "someCtx", "someValue")
		assert.ErrorIs(t, wrapped, err)
		assert.ErrorIs(t, wrapped, wrapped)
	})
	t.Run("As", func(t *testing.T) {
		err := &testErrType{msg: "test err"}
		wrapped := serrors.WrapNoStack("msg", err, "someCtx", "someValue")
		var errAs *testErrType
		require.True(t, errors.As(wrapped, &errAs))
		assert.Equal(t, err, errAs)
	})
}

func TestJoin(t *testing.T) {
	sentinel := errors.New("sentinel")
	cause := serrors.New("cause")

	testCases := map[string]struct {
		err      error
		expected string
		is       []error
	}{
		"join with cause": {
			err:      serrors.Join(sentinel, cause, "k", 1),
			expected: "sentinel {k=1}: cause",
			is:       []error{sentinel, cause},
		},
		"join without cause": {
			err:      serrors.JoinNoStack(sentinel, nil, "field", "Expiry"),
			expected: "sentinel {field=Expiry}",
			is:       []error{sentinel},
		},
		"join nil base": {
			err:      serrors.JoinNoStack(nil, cause),
			expected: "error: cause",
			is:       []error{cause},
		},
		"context is sorted": {
			err:      serrors.JoinNoStack(sentinel, nil, "b", 2, "a", 1),
			expected: "sentinel {a=1; b=2}",
			is:       []error{sentinel},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.EqualError(t, tc.err, tc.expected)
			for _, target := range tc.is {
				assert.ErrorIs(t, tc.err, target)
			}
		})
	}
	assert.Nil(t, serrors.Join(nil, nil))
}

func TestNewIdentity(t *testing.T) {
	err1 := serrors.New("err msg", "someCtx", "value")
	err2 := serrors.New("err msg", "someCtx", "value")
	assert.ErrorIs(t, err1, err1)
	assert.False(t, errors.Is(err1, err2))
}

func TestList(t *testing.T) {
	var list serrors.List
	assert.Nil(t, list.ToError())
	list = serrors.List{serrors.New("err1"), errors.New("err2")}
	assert.EqualError(t, list.ToError(), "[ err1; err2 ]")
}

func TestStackTrace(t *testing.T) {
	err := serrors.New("with stack")
	var st interface{ StackTrace() serrors.StackTrace }
	require.True(t, errors.As(err, &st))
	require.NotEmpty(t, st.StackTrace())

	noStack := serrors.WrapNoStack("no stack", errors.New("plain"))
	require.True(t, errors.As(noStack, &st))
	assert.Empty(t, st.StackTrace())
}

func TestAtMostOneStacktrace(t *testing.T) {
	err := errors.New("core")
	for i := range [20]int{} {
		err = serrors.Wrap("wrap", err, "level", i)
	}
	var b bytes.Buffer
	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "msg"}),
		zapcore.AddSync(&b),
		zapcore.DebugLevel,
	))
	logger.Sugar().Infow("Failed to do thing", "err", err)

	require.Equal(t, 1, bytes.Count(b.Bytes(), []byte("stacktrace")))
}

func TestMarshalLogObject(t *testing.T) {
	var b bytes.Buffer
	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "msg"}),
		zapcore.AddSync(&b),
		zapcore.DebugLevel,
	))
	err := serrors.WrapNoStack("reading record", errors.New("eof"), "line", 3)
	logger.Sugar().Infow("failed", "err", err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &parsed))
	errObj, ok := parsed["err"].(map[string]any)
	require.True(t, ok, b.String())
	assert.Equal(t, "reading record", errObj["msg"])
	assert.Equal(t, "eof", errObj["cause"])
	assert.EqualValues(t, 3, errObj["line"])
}

func ExampleJoin() {
	var ErrCodec = errors.New("malformed record")
	err := serrors.Join(ErrCodec, errors.New("illegal base64 data"), "field", "Signature")

	fmt.Println(errors.Is(err, ErrCodec))
	fmt.Println(err)
	// Output:
	// true
	// malformed record {field=Signature}: illegal base64 data
}

func ExampleWrapNoStack() {
	var ErrNotFound = errors.New("not found")
	err := serrors.WrapNoStack("looking up user", ErrNotFound, "email", "alice@example.com")

	fmt.Println(err)
	// Output:
	// looking up user {email=alice@example.com}: not found
}
