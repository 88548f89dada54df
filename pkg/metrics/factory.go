// Copyright 2026 Anapaya Systems
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
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*Options)

// Options configures the metrics Factory. Construct it with ApplyOptions.
type Options struct {
	registry prometheus.Registerer
}

func (o Options) registerer() prometheus.Registerer {
	if o.registry != nil {
		return o.registry
	}
	return prometheus.DefaultRegisterer
}

// WithRegistry registers all metrics of the factory with registry instead of
// the default registerer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *Options) {
		o.registry = registry
	}
}

func ApplyOptions(options ...Option) Options {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}
	return opts
}

// Auto creates a Factory that registers with the configured registry.
func (o Options) Auto() Factory {
	return Factory{opts: o}
}

// Factory creates and registers prometheus metrics.
type Factory struct {
	opts Options
}

func (f Factory) NewCounterVec(
	opts prometheus.CounterOpts,
	labelNames []string,
) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labelNames)
	f.opts.registerer().MustRegister(c)
	return c
}

func (f Factory) NewHistogramVec(
	opts prometheus.HistogramOpts,
	labelNames []string,
) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labelNames)
	f.opts.registerer().MustRegister(h)
	return h
}

// NewCounter creates, registers and wraps a counter vector.
func (f Factory) NewCounter(opts prometheus.CounterOpts, labelNames []string) Counter {
	return NewPromCounter(f.NewCounterVec(opts, labelNames))
}

// NewHistogram creates, registers and wraps a histogram vector.
func (f Factory) NewHistogram(opts prometheus.HistogramOpts, labelNames []string) Histogram {
	return NewPromHistogram(f.NewHistogramVec(opts, labelNames))
}
