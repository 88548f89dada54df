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
	"strings"

	"github.com/cckit/cck/pkg/private/serrors"
)

// Expiry is a fixed-width date of 4 year, 2 month and 2 day digits. Each
// element holds a single decimal digit. The zero value means the key never
// expires. No calendar validation is done beyond the month and day ranges.
type Expiry [8]uint8

// NoExpiry is the expiry of keys that never expire.
var NoExpiry Expiry

// Upper bounds of the expiry components. Zero is valid for every component.
const (
	MaxYear  = 9999
	MaxMonth = 12
	MaxDay   = 31
)

// NewExpiry creates the expiry for the given date.
func NewExpiry(year, month, day int) (Expiry, error) {
	if year < 0 || year > MaxYear || month < 0 || month > MaxMonth || day < 0 || day > MaxDay {
		return Expiry{}, validationError("expiry out of range",
			"year", year, "month", month, "day", day)
	}
	var e Expiry
	putDigits(e[0:4], year)
	putDigits(e[4:6], month)
	putDigits(e[6:8], day)
	return e, nil
}

// ParseExpiry parses an expiry in the form YYYY/MM/DD.
func ParseExpiry(s string) (Expiry, error) {
	groups := strings.Split(s, "/")
	if len(groups) != 3 {
		return Expiry{}, codecError(ErrMalformedExpiry, nil,
			"value", s, "reason", "expected 3 groups")
	}
	var e Expiry
	offset := 0
	for i, width := range [3]int{4, 2, 2} {
		g := groups[i]
		if len(g) != width {
			return Expiry{}, codecError(ErrMalformedExpiry, nil,
				"value", s, "group", i, "expected_width", width)
		}
		for j := 0; j < width; j++ {
			if g[j] < '0' || g[j] > '9' {
				return Expiry{}, codecError(ErrMalformedExpiry, nil,
					"value", s, "group", i, "reason", "not a digit")
			}
			e[offset+j] = g[j] - '0'
		}
		offset += width
	}
	if e.Month() > MaxMonth || e.Day() > MaxDay {
		return Expiry{}, codecError(ErrMalformedExpiry, nil,
			"value", s, "reason", "out of range")
	}
	return e, nil
}

func putDigits(dst []uint8, v int) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = uint8(v % 10)
		v /= 10
	}
}

func digits(src []uint8) int {
	v := 0
	for _, d := range src {
		v = v*10 + int(d)
	}
	return v
}

func (e Expiry) Year() int  { return digits(e[0:4]) }
func (e Expiry) Month() int { return digits(e[4:6]) }
func (e Expiry) Day() int   { return digits(e[6:8]) }

// IsZero reports whether e is the never-expires sentinel.
func (e Expiry) IsZero() bool {
	return e == NoExpiry
}

func (e Expiry) String() string {
	var b strings.Builder
	b.Grow(10)
	for i, d := range e {
		if i == 4 || i == 6 {
			b.WriteByte('/')
		}
		b.WriteByte('0' + d%10)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (e Expiry) MarshalText() ([]byte, error) {
	for i, d := range e {
		if d > 9 {
			return nil, serrors.JoinNoStack(ErrValidation, nil, "reason", "not a digit",
				"position", i, "value", d)
		}
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Expiry) UnmarshalText(b []byte) error {
	parsed, err := ParseExpiry(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
