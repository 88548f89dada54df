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

package ring

import (
	"context"
	"errors"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/metrics"
	dblib "github.com/cckit/cck/private/storage/db"
	"github.com/cckit/cck/private/tracing"
)

type promOp string

const (
	promOpInsertUser              promOp = "insert_user"
	promOpInsertPrivateKey        promOp = "insert_private_key"
	promOpInsertPublicKey         promOp = "insert_public_key"
	promOpUserByID                promOp = "user_by_id"
	promOpUserByEmail             promOp = "user_by_email"
	promOpUsersByName             promOp = "users_by_name"
	promOpPrivateKeys             promOp = "private_keys"
	promOpPrivateKeyByFingerprint promOp = "private_key_by_fingerprint"
	promOpPrivateKey              promOp = "private_key"
	promOpPublicKeys              promOp = "public_keys"
	promOpPublicKeyByFingerprint  promOp = "public_key_by_fingerprint"
	promOpPublicKey               promOp = "public_key"
	promOpClose                   promOp = "close"
)

// ResultNotFound is the result label of lookups without a match.
const ResultNotFound = "err_not_found"

// Metrics are the counters updated by a ring wrapped with WithMetrics.
type Metrics struct {
	// QueriesTotal is labeled by db and operation.
	QueriesTotal metrics.Counter
	// ResultsTotal is labeled by db, operation and result.
	ResultsTotal metrics.Counter
}

// NewMetrics creates and registers the ring counters.
func NewMetrics(opts ...metrics.Option) *Metrics {
	f := metrics.ApplyOptions(opts...).Auto()
	return &Metrics{
		QueriesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ring_queries_total",
				Help: "Total number of ring operations.",
			},
			[]string{"db", "operation"},
		),
		ResultsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "ring_results_total",
				Help: "Results of ring operations.",
			},
			[]string{"db", "operation", "result"},
		),
	}
}

// WithMetrics wraps db such that every operation is counted, traced and
// logged at debug level. dbName is added as a label to all metrics, so that
// multiple rings can be differentiated. A nil m only traces and logs.
func WithMetrics(dbName string, db DB, m *Metrics) DB {
	return &metricsDB{
		db:       db,
		observer: &observer{dbName: dbName, metrics: m},
	}
}

type observer struct {
	dbName  string
	metrics *Metrics
}

func (o *observer) Observe(ctx context.Context, op promOp, action func(context.Context) error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, fmt.Sprintf("ring.%s", string(op)))
	defer span.Finish()
	tracing.Component(span, "ring")

	var queries, results metrics.Counter
	if o.metrics != nil {
		queries, results = o.metrics.QueriesTotal, o.metrics.ResultsTotal
	}
	metrics.CounterInc(metrics.CounterWith(queries, "db", o.dbName, "operation", string(op)))
	err := action(ctx)

	label := errToLabel(err)
	tracing.Error(span, err)
	tracing.ResultLabel(span, label)
	metrics.CounterInc(metrics.CounterWith(results,
		"db", o.dbName, "operation", string(op), "result", label))

	if logger := log.FromCtx(ctx); logger.Enabled(log.DebugLevel) {
		logger.Debug("Ring operation", "db", o.dbName, "op", string(op), "result", label)
	}
}

func errToLabel(err error) string {
	if errors.Is(err, ErrNotFound) {
		return ResultNotFound
	}
	return dblib.ErrToMetricLabel(err)
}

var _ DB = (*metricsDB)(nil)

type metricsDB struct {
	db       DB
	observer *observer
}

func (d *metricsDB) InsertUser(ctx context.Context, user *keyring.User) error {
	var err error
	d.observer.Observe(ctx, promOpInsertUser, func(ctx context.Context) error {
		err = d.db.InsertUser(ctx, user)
		return err
	})
	return err
}

func (d *metricsDB) InsertPrivateKey(ctx context.Context, userID string,
	key *keyring.PrivateKey) error {

	var err error
	d.observer.Observe(ctx, promOpInsertPrivateKey, func(ctx context.Context) error {
		err = d.db.InsertPrivateKey(ctx, userID, key)
		return err
	})
	return err
}

func (d *metricsDB) InsertPublicKey(ctx context.Context, userID string,
	key *keyring.PublicKey) error {

	var err error
	d.observer.Observe(ctx, promOpInsertPublicKey, func(ctx context.Context) error {
		err = d.db.InsertPublicKey(ctx, userID, key)
		return err
	})
	return err
}

func (d *metricsDB) UserByID(ctx context.Context, id string) (*keyring.User, error) {
	var ret *keyring.User
	var err error
	d.observer.Observe(ctx, promOpUserByID, func(ctx context.Context) error {
		ret, err = d.db.UserByID(ctx, id)
		return err
	})
	return ret, err
}

func (d *metricsDB) UserByEmail(ctx context.Context, email string) (*keyring.User, error) {
	var ret *keyring.User
	var err error
	d.observer.Observe(ctx, promOpUserByEmail, func(ctx context.Context) error {
		ret, err = d.db.UserByEmail(ctx, email)
		return err
	})
	return ret, err
}

func (d *metricsDB) UsersByName(ctx context.Context, name string) ([]*keyring.User, error) {
	var ret []*keyring.User
	var err error
	d.observer.Observe(ctx, promOpUsersByName, func(ctx context.Context) error {
		ret, err = d.db.UsersByName(ctx, name)
		return err
	})
	return ret, err
}

func (d *metricsDB) PrivateKeys(ctx context.Context,
	userID string) ([]*keyring.PrivateKey, error) {

	var ret []*keyring.PrivateKey
	var err error
	d.observer.Observe(ctx, promOpPrivateKeys, func(ctx context.Context) error {
		ret, err = d.db.PrivateKeys(ctx, userID)
		return err
	})
	return ret, err
}

func (d *metricsDB) PrivateKeyByFingerprint(ctx context.Context,
	fp keyring.Fingerprint) (*keyring.PrivateKey, error) {

	var ret *keyring.PrivateKey
	var err error
	d.observer.Observe(ctx, promOpPrivateKeyByFingerprint, func(ctx context.Context) error {
		ret, err = d.db.PrivateKeyByFingerprint(ctx, fp)
		return err
	})
	return ret, err
}

func (d *metricsDB) PrivateKey(ctx context.Context, userID string,
	fp keyring.Fingerprint) (*keyring.PrivateKey, error) {

	var ret *keyring.PrivateKey
	var err error
	d.observer.Observe(ctx, promOpPrivateKey, func(ctx context.Context) error {
		ret, err = d.db.PrivateKey(ctx, userID, fp)
		return err
	})
	return ret, err
}

func (d *metricsDB) PublicKeys(ctx context.Context,
	userID string) ([]*keyring.PublicKey, error) {

	var ret []*keyring.PublicKey
	var err error
	d.observer.Observe(ctx, promOpPublicKeys, func(ctx context.Context) error {
		ret, err = d.db.PublicKeys(ctx, userID)
		return err
	})
	return ret, err
}

func (d *metricsDB) PublicKeyByFingerprint(ctx context.Context,
	fp keyring.Fingerprint) (*keyring.PublicKey, error) {

	var ret *keyring.PublicKey
	var err error
	d.observer.Observe(ctx, promOpPublicKeyByFingerprint, func(ctx context.Context) error {
		ret, err = d.db.PublicKeyByFingerprint(ctx, fp)
		return err
	})
	return ret, err
}

func (d *metricsDB) PublicKey(ctx context.Context, userID string,
	fp keyring.Fingerprint) (*keyring.PublicKey, error) {

	var ret *keyring.PublicKey
	var err error
	d.observer.Observe(ctx, promOpPublicKey, func(ctx context.Context) error {
		ret, err = d.db.PublicKey(ctx, userID, fp)
		return err
	})
	return ret, err
}

func (d *metricsDB) Close() error {
	var err error
	d.observer.Observe(context.Background(), promOpClose, func(context.Context) error {
		err = d.db.Close()
		return err
	})
	return err
}
