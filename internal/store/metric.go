package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	instrumentedSuffix = "-instrumented"
)

var (
	opRegex     = regexp.MustCompile(`^(\w)+`)
	dbOpLatency *prometheus.HistogramVec
	dbOpTotal   *prometheus.CounterVec

	registerMu sync.Mutex
	registered = map[string]bool{}
)

type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func init() {
	dbOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "db_op_duration_milliseconds",
		Help:      "Time spent on a database operation",
		Subsystem: "pv_planner",
		Buckets:   []float64{5, 20, 100, 300, 1000, 5000},
	},
		[]string{"op", "method"},
	)
	dbOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "db_op_total",
		Help:      "Number of database operations",
		Subsystem: "pv_planner",
	},
		[]string{"op"},
	)
	prometheus.MustRegister(dbOpLatency)
	prometheus.MustRegister(dbOpTotal)
}

// instrumentedDriver registers, once, a copy of the named sql driver that records
// every operation in the db_op metrics and returns the name of that copy.
func instrumentedDriver(name string) (string, error) {
	registerMu.Lock()
	defer registerMu.Unlock()

	wrapped := name + instrumentedSuffix
	if registered[wrapped] {
		return wrapped, nil
	}

	// sql.Open does not connect, it only resolves the driver
	db, err := sql.Open(name, "")
	if err != nil {
		return "", fmt.Errorf("resolving sql driver %q: %w", name, err)
	}
	base := db.Driver()
	_ = db.Close()

	sql.Register(wrapped, sqlmw.Driver(base, &metricInterceptor{}))
	registered[wrapped] = true
	return wrapped, nil
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	start := time.Now()
	defer mi.measure("conn-begin-tx", "conn-begin-tx", start)

	tx, err := conn.BeginTx(ctx, opts)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnPrepareContext(ctx context.Context, conn driver.ConnPrepareContext, query string) (context.Context, driver.Stmt, error) {
	start := time.Now()
	defer mi.measure("conn-prepare-context", statementMethod(query, "conn-prepare-context"), start)

	stmt, err := conn.PrepareContext(ctx, query)
	return ctx, stmt, err
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	defer mi.measure("conn-exec-context", statementMethod(query, "conn-exec-context"), start)

	return conn.ExecContext(ctx, query, args)
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	defer mi.measure("conn-query-context", statementMethod(query, "conn-query-context"), start)

	rows, err := conn.QueryContext(ctx, query, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) StmtExecContext(ctx context.Context, conn driver.StmtExecContext, query string, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	defer mi.measure("stmt-exec-context", statementMethod(query, "stmt-exec-context"), start)
	return conn.ExecContext(ctx, args)
}

func (mi *metricInterceptor) StmtQueryContext(ctx context.Context, conn driver.StmtQueryContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	start := time.Now()
	defer mi.measure("stmt-query-context", statementMethod(query, "stmt-query-context"), start)

	rows, err := conn.QueryContext(ctx, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	defer mi.measure("tx-commit", "tx-commit", start)
	return conn.Commit()
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, conn driver.Tx) error {
	start := time.Now()
	defer mi.measure("tx-rollback", "tx-rollback", start)
	return conn.Rollback()
}

// statementMethod is the lower-cased leading keyword of query, e.g. "select".
func statementMethod(query, fallback string) string {
	matches := opRegex.FindString(strings.TrimSpace(query))
	if matches == "" {
		return fallback
	}
	return strings.ToLower(matches)
}

func (mi *metricInterceptor) measure(op, method string, start time.Time) {
	dbOpTotal.With(prometheus.Labels{"op": op}).Inc()
	dbOpLatency.With(prometheus.Labels{
		"op":     op,
		"method": method,
	}).Observe(float64(time.Since(start).Milliseconds()))
}
