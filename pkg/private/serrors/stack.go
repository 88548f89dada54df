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

package serrors

import (
	"fmt"
	"path"
	"runtime"

	"go.uber.org/zap/zapcore"
)

const maxStackDepth = 32

// Frame is a program counter inside a stack frame.
type Frame uintptr

func (f Frame) pc() uintptr { return uintptr(f) - 1 }

func (f Frame) location() (string, string, int) {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return "unknown", "unknown", 0
	}
	file, line := fn.FileLine(f.pc())
	return fn.Name(), file, line
}

// MarshalText renders the frame as "function file:line".
func (f Frame) MarshalText() ([]byte, error) {
	name, file, line := f.location()
	if name == "unknown" {
		return []byte(name), nil
	}
	return []byte(fmt.Sprintf("%s %s:%d", name, file, line)), nil
}

// String renders the frame in short form "file:line".
func (f Frame) String() string {
	_, file, line := f.location()
	return fmt.Sprintf("%s:%d", path.Base(file), line)
}

// StackTrace is a stack of frames, innermost first.
type StackTrace []Frame

type stack []uintptr

// StackTrace converts the raw program counters into frames.
func (s *stack) StackTrace() StackTrace {
	f := make([]Frame, len(*s))
	for i := range f {
		f[i] = Frame((*s)[i])
	}
	return f
}

// MarshalLogArray implements zapcore.ArrayMarshaler.
func (s *stack) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, pc := range *s {
		t, err := Frame(pc).MarshalText()
		if err != nil {
			return err
		}
		enc.AppendByteString(t)
	}
	return nil
}

// callers skips itself, newInfo and the exported constructor.
func callers() *stack {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(4, pcs[:])
	var st stack = pcs[0:n]
	return &st
}
