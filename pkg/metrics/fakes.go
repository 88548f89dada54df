// Copyright 2020 Anapaya Systems
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


package metrics

import (
	"sort"
	"strings"
	"sync"
)

// TestCounter is a Counter for tests. Children created with With share a
// registry with their parent, so values can be read back per label set.
type TestCounter struct {
	reg *testRegistry
	lvs labelValuesSlice
}

type testRegistry struct {
	mtx    sync.Mutex
	values map[string]float64
}

// NewTestCounter creates a new counter for use in tests.
func NewTestCounter() *TestCounter {
	return &TestCounter{reg: &testRegistry{values: make(map[string]float64)}}
}

// With returns a child counter with the additional labels.
func (c *TestCounter) With(labelValues ...string) Counter {
	return &TestCounter{reg: c.reg, lvs: c.lvs.With(labelValues...)}
}

// Add increases the counter. It panics on negative deltas.
func (c *TestCounter) Add(delta float64) {
	if delta < 0 {
		panic("counter increment value is < 0")
	}
	c.reg.mtx.Lock()
	defer c.reg.mtx.Unlock()
	c.reg.values[c.lvs.key()] += delta
}

// Value returns the value accumulated under exactly the labels of c.
func (c *TestCounter) Value() float64 {
	c.reg.mtx.Lock()
	defer c.reg.mtx.Unlock()
	return c.reg.values[c.lvs.key()]
}

// Sum returns the total over all label sets.
func (c *TestCounter) Sum() float64 {
	c.reg.mtx.Lock()
	defer c.reg.mtx.Unlock()
	var sum float64
	for _, v := range c.reg.values {
		sum += v
	}
	return sum
}

// CounterValue extracts the value out of a TestCounter. It panics if c is not
// a *TestCounter.
func CounterValue(c Counter) float64 {
	return c.(*TestCounter).Value()
}

// key is independent of the order in which labels were added.
func (lvs labelValuesSlice) key() string {
	pairs := make([]string, 0, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		pairs = append(pairs, lvs[i]+"="+lvs[i+1])
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
