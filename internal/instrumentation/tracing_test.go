package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// newTestTracer installs an in-memory span recorder and returns it together
// with the tracer provider.
func newTestTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return recorder, provider
}

func attrValue(attrs []attribute.KeyValue, key string) (string, bool) {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestSpanAttributeBuilder_WithTool(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithTool("search_knowledge_graph").Build()

	if tool, ok := attrValue(attrs, SpanAttrTool); !ok || tool != "search_knowledge_graph" {
		t.Errorf("tool attribute = %q, want %q", tool, "search_knowledge_graph")
	}
	if family, ok := attrValue(attrs, SpanAttrToolFamily); !ok || family != "read" {
		t.Errorf("tool family attribute = %q, want %q", family, "read")
	}
}

func TestSpanAttributeBuilder_WithProject(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithProject("abc12345", "").Build()

	if code, ok := attrValue(attrs, SpanAttrProjectCode); !ok || code != "abc12345" {
		t.Errorf("project code attribute = %q, want %q", code, "abc12345")
	}
	// Empty environment normalizes to the staging default
	if env, ok := attrValue(attrs, SpanAttrEnvironment); !ok || env != "staging" {
		t.Errorf("environment attribute = %q, want %q", env, "staging")
	}
}

func TestSpanAttributeBuilder_EmptyProjectCodeOmitted(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithProject("", "production").Build()

	if _, ok := attrValue(attrs, SpanAttrProjectCode); ok {
		t.Error("empty project code should be omitted")
	}
	if env, _ := attrValue(attrs, SpanAttrEnvironment); env != "production" {
		t.Errorf("environment attribute = %q, want %q", env, "production")
	}
}

func TestSpanAttributeBuilder_Chaining(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("add_knowledge_nodes").
		WithProject("abc12345", "staging").
		WithEntityType("Topic").
		WithBackend("graph").
		WithOperation("bulk_nodes").
		WithBatchSize(250).
		WithReadOnly(false).
		Build()

	expected := map[string]string{
		SpanAttrTool:        "add_knowledge_nodes",
		SpanAttrToolFamily:  "write",
		SpanAttrProjectCode: "abc12345",
		SpanAttrEnvironment: "staging",
		SpanAttrEntityType:  "Topic",
		SpanAttrBackend:     "graph",
		SpanAttrOperation:   "bulk_nodes",
		SpanAttrBatchSize:   "250",
		SpanAttrReadOnly:    "false",
	}

	for key, want := range expected {
		if got, ok := attrValue(attrs, key); !ok || got != want {
			t.Errorf("attribute %s = %q, want %q", key, got, want)
		}
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder, provider := newTestTracer(t)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartToolSpan(context.Background(), "traverse_knowledge_graph")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 recorded span, got %d", len(spans))
	}
	if name := spans[0].Name(); name != "tool.traverse_knowledge_graph" {
		t.Errorf("span name = %q, want %q", name, "tool.traverse_knowledge_graph")
	}
	if family, ok := attrValue(spans[0].Attributes(), SpanAttrToolFamily); !ok || family != "read" {
		t.Errorf("tool family attribute = %q, want %q", family, "read")
	}
}

func TestStartBackendSpan(t *testing.T) {
	recorder, provider := newTestTracer(t)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartBackendSpan(context.Background(), BackendGraph, OperationBulkNodes)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 recorded span, got %d", len(spans))
	}
	if name := spans[0].Name(); name != "graph.bulk_nodes" {
		t.Errorf("span name = %q, want %q", name, "graph.bulk_nodes")
	}
}

func TestSetSpanError(t *testing.T) {
	recorder, provider := newTestTracer(t)
	tracer := provider.Tracer(TracerName)

	_, span := tracer.Start(context.Background(), "tool.search_knowledge_graph")
	SetSpanError(span, errors.New("backend unavailable"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected error event to be recorded")
	}
}

func TestSetSpanError_NilError(t *testing.T) {
	recorder, provider := newTestTracer(t)
	tracer := provider.Tracer(TracerName)

	_, span := tracer.Start(context.Background(), "tool.search_knowledge_graph")
	SetSpanError(span, nil)
	span.End()

	spans := recorder.Ended()
	if len(spans[0].Events()) != 0 {
		t.Error("nil error should not record an event")
	}
}

func TestSetSpanSuccess(t *testing.T) {
	recorder, provider := newTestTracer(t)
	tracer := provider.Tracer(TracerName)

	_, span := tracer.Start(context.Background(), "tool.get_knowledge_schema")
	SetSpanSuccess(span)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("GetTraceID with no span = %q, want empty", id)
	}
}

func TestGetSpanID_NoSpan(t *testing.T) {
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("GetSpanID with no span = %q, want empty", id)
	}
}

func TestSpanContextString_NoSpan(t *testing.T) {
	if s := SpanContextString(context.Background()); s != "" {
		t.Errorf("SpanContextString with no span = %q, want empty", s)
	}
}

func TestTraceAndSpanIDs_WithSpan(t *testing.T) {
	_, provider := newTestTracer(t)
	tracer := provider.Tracer(TracerName)

	ctx, span := tracer.Start(context.Background(), "tool.search_knowledge_graph")
	defer span.End()

	traceID := GetTraceID(ctx)
	spanID := GetSpanID(ctx)

	if traceID == "" {
		t.Error("expected non-empty trace ID")
	}
	if spanID == "" {
		t.Error("expected non-empty span ID")
	}

	expected := "trace_id=" + traceID + " span_id=" + spanID
	if s := SpanContextString(ctx); s != expected {
		t.Errorf("SpanContextString = %q, want %q", s, expected)
	}
}
