package sql

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stats counts the statements issued through a StatsQuerier.
type Stats struct {
	Queries int64
	Execs   int64
	Errors  int64
	Slow    int64
	Elapsed time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("queries", s.Queries)
	enc.AddInt64("execs", s.Execs)
	enc.AddInt64("errors", s.Errors)
	enc.AddInt64("slow", s.Slow)
	enc.AddDuration("elapsed", s.Elapsed)
	return nil
}

// StatsQuerier wraps an ExecQuerier with statement counters and slow
// statement logging. The schema inspector is handed the querier too, so
// inspection queries are counted.
type StatsQuerier struct {
	eq   ExecQuerier
	log  *zap.Logger
	slow time.Duration

	queries, execs, errors, slowCount, elapsed atomic.Int64
}

// NewStatsQuerier wraps eq. Statements slower than threshold are logged at
// warn level.
func NewStatsQuerier(eq ExecQuerier, threshold time.Duration, log *zap.Logger) *StatsQuerier {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsQuerier{eq: eq, log: log, slow: threshold}
}

// Stats returns the current counters.
func (q *StatsQuerier) Stats() Stats {
	return Stats{
		Queries: q.queries.Load(),
		Execs:   q.execs.Load(),
		Errors:  q.errors.Load(),
		Slow:    q.slowCount.Load(),
		Elapsed: time.Duration(q.elapsed.Load()),
	}
}

// QueryContext executes a query and records it.
func (q *StatsQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.eq.QueryContext(ctx, query, args...)
	q.queries.Add(1)
	q.record(query, len(args), start, err)
	return rows, err
}

// ExecContext executes a statement and records it.
func (q *StatsQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.eq.ExecContext(ctx, query, args...)
	q.execs.Add(1)
	q.record(query, len(args), start, err)
	return res, err
}

func (q *StatsQuerier) record(query string, args int, start time.Time, err error) {
	d := time.Since(start)
	q.elapsed.Add(int64(d))
	if err != nil {
		q.errors.Add(1)
	}
	if d > q.slow {
		q.slowCount.Add(1)
		q.log.Warn("slow query detected",
			zap.Duration("duration", d),
			zap.String("query", query),
			zap.Int("args", args))
	}
}
