package storage

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskserver/pkg/metrics"
)

type traceCtxKey int

const (
	queryStartKey traceCtxKey = iota
	querySQLKey
)

// queryTracer times every statement, feeding the query duration
// histogram and logging statements above the slow threshold.
type queryTracer struct {
	logger        *zap.Logger
	slowThreshold time.Duration
}

func newQueryTracer(logger *zap.Logger, slowThreshold time.Duration) *queryTracer {
	return &queryTracer{logger: logger, slowThreshold: slowThreshold}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx = context.WithValue(ctx, queryStartKey, time.Now())
	return context.WithValue(ctx, querySQLKey, data.SQL)
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	sql, _ := ctx.Value(querySQLKey).(string)
	duration := time.Since(start)

	metrics.RecordDBQueryDuration(statementOp(sql), duration)

	if data.Err != nil {
		return // the caller logs the failure with context
	}
	if duration > t.slowThreshold {
		t.logger.Warn("Slow query",
			zap.String("sql", sql),
			zap.Duration("duration", duration),
			zap.Duration("threshold", t.slowThreshold),
		)
	}
}

// statementOp extracts the leading SQL keyword for metric labels.
func statementOp(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
