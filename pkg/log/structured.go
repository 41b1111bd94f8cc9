package log

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solarwerk/pv-planner/pkg/requestid"
)

// StructuredLogger emits operation-scoped debug traces on the global zap logger.
//
//	tracer := logger.WithContext(ctx).Operation("derive_bom").WithString("project_id", id).Build()
//	tracer.Step("catalog_loaded").WithInt("materials", n).Log()
//	tracer.Success().Log()
type StructuredLogger struct {
	name string
	ctx  context.Context
}

// NewDebugLogger returns a logger named after the component using it.
func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, ctx: context.Background()}
}

// WithContext returns a copy bound to ctx. The request id of ctx is attached to every entry.
func (l *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	if ctx == nil {
		ctx = context.Background()
	}
	return &StructuredLogger{name: l.name, ctx: ctx}
}

// Operation starts describing an operation.
func (l *StructuredLogger) Operation(name string) *OperationBuilder {
	return &OperationBuilder{logger: l, operation: name}
}

func (l *StructuredLogger) base() *zap.Logger {
	return zap.L().Named(l.name)
}

type fields []zap.Field

func (f *fields) add(field zap.Field) { *f = append(*f, field) }

// OperationBuilder collects the fields shared by every entry of an operation.
type OperationBuilder struct {
	logger    *StructuredLogger
	operation string
	fields    fields
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields.add(zap.String(key, value))
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields.add(zap.Int(key, value))
	return b
}

func (b *OperationBuilder) WithFloat(key string, value float64) *OperationBuilder {
	b.fields.add(zap.Float64(key, value))
	return b
}

func (b *OperationBuilder) WithBool(key string, value bool) *OperationBuilder {
	b.fields.add(zap.Bool(key, value))
	return b
}

func (b *OperationBuilder) WithUUID(key string, value uuid.UUID) *OperationBuilder {
	b.fields.add(zap.String(key, value.String()))
	return b
}

func (b *OperationBuilder) WithParam(key string, value any) *OperationBuilder {
	b.fields.add(zap.Any(key, value))
	return b
}

// Build logs the operation start and returns its tracer.
func (b *OperationBuilder) Build() *OperationTracer {
	base := make([]zap.Field, 0, len(b.fields)+2)
	base = append(base, zap.String("operation", b.operation))
	if id := requestid.FromContext(b.logger.ctx); id != "" {
		base = append(base, zap.String("request_id", id))
	}
	base = append(base, b.fields...)

	t := &OperationTracer{
		logger: b.logger.base().With(base...),
		start:  time.Now(),
	}
	t.logger.Debug(fmt.Sprintf("%s started", b.operation))
	return t
}

// OperationTracer logs the steps and the outcome of one operation.
type OperationTracer struct {
	logger *zap.Logger
	start  time.Time
}

// Step describes an intermediate step.
func (t *OperationTracer) Step(name string) *Entry {
	return &Entry{tracer: t, level: zap.DebugLevel, msg: "step", fields: fields{zap.String("step", name)}}
}

// Success describes the successful end of the operation.
func (t *OperationTracer) Success() *Entry {
	return &Entry{tracer: t, level: zap.DebugLevel, msg: "success", fields: fields{zap.Duration("duration", time.Since(t.start))}}
}

// Error describes the failed end of the operation.
func (t *OperationTracer) Error(err error) *Entry {
	return &Entry{tracer: t, level: zap.ErrorLevel, msg: "failed", fields: fields{zap.Error(err), zap.Duration("duration", time.Since(t.start))}}
}

// Entry is a single pending log line.
type Entry struct {
	tracer *OperationTracer
	level  zapcore.Level
	msg    string
	fields fields
}

func (e *Entry) WithString(key, value string) *Entry {
	e.fields.add(zap.String(key, value))
	return e
}

func (e *Entry) WithInt(key string, value int) *Entry {
	e.fields.add(zap.Int(key, value))
	return e
}

func (e *Entry) WithFloat(key string, value float64) *Entry {
	e.fields.add(zap.Float64(key, value))
	return e
}

func (e *Entry) WithBool(key string, value bool) *Entry {
	e.fields.add(zap.Bool(key, value))
	return e
}

func (e *Entry) WithUUID(key string, value uuid.UUID) *Entry {
	e.fields.add(zap.String(key, value.String()))
	return e
}

func (e *Entry) WithParam(key string, value any) *Entry {
	e.fields.add(zap.Any(key, value))
	return e
}

// Log writes the entry.
func (e *Entry) Log() {
	if ce := e.tracer.logger.Check(e.level, e.msg); ce != nil {
		ce.Write(e.fields...)
	}
}
