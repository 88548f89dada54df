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

// Package metrics defines label-aware counter and histogram interfaces,
// prometheus implementations and fakes for tests.
//
// All helpers accept nil metrics and then do nothing, so that optional
// metrics do not need to be checked at every call site.
package metrics

// Counter is a monotonically increasing metric.
type Counter interface {
	With(labelValues ...string) Counter
	Add(delta float64)
}

// Histogram samples observations into buckets.
type Histogram interface {
	With(labelValues ...string) Histogram
	Observe(value float64)
}

// CounterWith returns c with the label values applied, or nil if c is nil.
func CounterWith(c Counter, labelValues ...string) Counter {
	if c == nil {
		return nil
	}
	return c.With(labelValues...)
}

// CounterInc increments c by one.
func CounterInc(c Counter) {
	CounterAdd(c, 1)
}

// CounterAdd increments c by delta.
func CounterAdd(c Counter, delta float64) {
	if c != nil {
		c.Add(delta)
	}
}

// HistogramWith returns h with the label values applied, or nil if h is nil.
func HistogramWith(h Histogram, labelValues ...string) Histogram {
	if h == nil {
		return nil
	}
	return h.With(labelValues...)
}

// HistogramObserve records value on h.
func HistogramObserve(h Histogram, value float64) {
	if h != nil {
		h.Observe(value)
	}
}
