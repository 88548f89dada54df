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

package ring_test

import (
	"context"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/metrics"
	"github.com/cckit/cck/private/storage/ring"
	"github.com/cckit/cck/private/storage/ring/dbtest"
	"github.com/cckit/cck/private/storage/ring/sqlite"
)

type metricsBackend struct {
	ring.DB
}

func (b *metricsBackend) Prepare(t *testing.T, _ context.Context) {
	db, err := sqlite.NewInMemory()
	require.NoError(t, err)
	b.DB = ring.WithMetrics("test", db, nil)
}

func TestWithMetricsSuite(t *testing.T) {
	dbtest.TestDB(t, &metricsBackend{})
}

func TestWithMetricsCounters(t *testing.T) {
	ctx := context.Background()
	backend, err := sqlite.NewInMemory()
	require.NoError(t, err)
	m := &ring.Metrics{
		QueriesTotal: metrics.NewTestCounter(),
		ResultsTotal: metrics.NewTestCounter(),
	}
	db := ring.WithMetrics("main", backend, m)
	defer db.Close()

	user, err := keyring.NewUser("alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, db.InsertUser(ctx, user))
	_, err = db.UserByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, ring.ErrNotFound)
	_, err = db.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	queries := func(op string) float64 {
		return metrics.CounterValue(m.QueriesTotal.With("db", "main", "operation", op))
	}
	results := func(op, result string) float64 {
		return metrics.CounterValue(
			m.ResultsTotal.With("db", "main", "operation", op, "result", result))
	}
	assert.Equal(t, float64(1), queries("insert_user"))
	assert.Equal(t, float64(2), queries("user_by_email"))
	assert.Equal(t, float64(1), results("insert_user", "ok"))
	assert.Equal(t, float64(1), results("user_by_email", "ok"))
	assert.Equal(t, float64(1), results("user_by_email", ring.ResultNotFound))
}

func TestWithMetricsPrometheus(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := ring.NewMetrics(metrics.WithRegistry(reg))
	backend, err := sqlite.NewInMemory()
	require.NoError(t, err)
	db := ring.WithMetrics("prom", backend, m)
	defer db.Close()

	_, err = db.PrivateKeys(ctx, "0000")
	require.NoError(t, err)
	assert.Equal(t, 2, testutil.CollectAndCount(reg))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "ring_results_total"))
}

func TestWithMetricsTracing(t *testing.T) {
	tracer := mocktracer.New()
	prev := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(prev)

	backend, err := sqlite.NewInMemory()
	require.NoError(t, err)
	db := ring.WithMetrics("traced", backend, nil)
	defer db.Close()

	_, err = db.UserByID(context.Background(), "0000")
	require.ErrorIs(t, err, ring.ErrNotFound)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "ring.user_by_id", spans[0].OperationName)
	assert.Equal(t, ring.ResultNotFound, spans[0].Tag("result.label"))
	assert.Equal(t, "ring", spans[0].Tag("component"))
}
