package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// ToolInvocation captures the lifecycle of a single MCP tool call for
// audit logging. Build one at the start of a handler, enrich it with
// context as arguments are parsed, and complete it when the call returns.
type ToolInvocation struct {
	Tool      string
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Target context
	ProjectCode string
	Environment string
	EntityType  string

	// Correlation
	RequestID string
	TraceID   string
	SpanID    string
}

// NewToolInvocation creates a ToolInvocation with the start time set.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithProject records the target project code and environment.
func (ti *ToolInvocation) WithProject(projectCode, environment string) *ToolInvocation {
	ti.ProjectCode = projectCode
	ti.Environment = NormalizeEnvironment(environment)
	return ti
}

// WithEntityType records the graph entity type being operated on.
func (ti *ToolInvocation) WithEntityType(entityType string) *ToolInvocation {
	ti.EntityType = entityType
	return ti
}

// WithRequestID records the per-invocation request identifier.
func (ti *ToolInvocation) WithRequestID(requestID string) *ToolInvocation {
	ti.RequestID = requestID
	return ti
}

// WithSpanContext extracts trace and span IDs from the context, if a valid
// span is present.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// Complete marks the invocation finished and records its duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteSuccess marks the invocation finished successfully.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// CompleteWithError marks the invocation failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// Family returns the classified tool family for metrics and logging.
func (ti *ToolInvocation) Family() string {
	return ClassifyToolFamily(ti.Tool)
}

// Status returns the metric status label for the invocation outcome.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns cardinality-controlled attributes suitable for
// operational logs and metrics correlation. Project codes are omitted;
// use LogAuditAttrs for the full record.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("family", ti.Family()),
		slog.String("environment", ti.Environment),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	return attrs
}

// LogAuditAttrs returns the full audit record attributes, including
// project code and entity type. Audit logs are expected to land in a
// store sized for high-cardinality values.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("family", ti.Family()),
		slog.String("project_code", ti.ProjectCode),
		slog.String("environment", ti.Environment),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.EntityType != "" {
		attrs = append(attrs, slog.String("entity_type", ti.EntityType))
	}
	if ti.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", ti.RequestID))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes tool invocation audit records through slog.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates an AuditLogger. A nil logger falls back to
// slog.Default().
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

// LogToolInvocation writes one audit record for a completed invocation.
// Failed invocations are logged at Warn so they stand out in aggregated logs.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || al.logger == nil || ti == nil {
		return
	}

	level := slog.LevelInfo
	if !ti.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "tool invocation", ti.LogAuditAttrs()...)
}

// TraceIDFromContext returns the trace ID from the active span, or an
// empty string when no valid span is present.
func TraceIDFromContext(ctx context.Context) string {
	return GetTraceID(ctx)
}
