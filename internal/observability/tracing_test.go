package observability

import (
	"context"
	"errors"
	"testing"

	"friendsapp/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "friends-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_StdoutExporter(t *testing.T) {
	prev := Tracer
	t.Cleanup(func() { Tracer = prev })

	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "friends-test",
		Environment:  "test",
		Enabled:      true,
		Exporter:     "stdout",
		SamplerRatio: 0.5,
	})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSpan_RecordsErrorAndAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() { Tracer = prev })

	span, ctx := NewSpan(context.Background(), "PostService.Delete")
	require.NotNil(t, ctx)
	span.AddAttributes(attribute.Int64("post.id", 4))
	span.SetError(errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "PostService.Delete", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.Int64("post.id", 4))
}

func TestSpan_RejectionsAreNotErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() { Tracer = prev })

	span, _ := NewSpan(context.Background(), "FollowService.Follow")
	span.SetError(models.NewSelfFollowError("You cannot follow yourself!"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	require.Len(t, ended[0].Events(), 1)
	assert.Contains(t, ended[0].Events()[0].Attributes, attribute.String("app.error_code", models.CodeSelfFollow))
}

func TestCollectors_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	for _, c := range Collectors() {
		require.NoError(t, reg.Register(c))
	}

	before := testutil.ToFloat64(PostEvents.WithLabelValues("created"))
	PostEvents.WithLabelValues("created").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PostEvents.WithLabelValues("created")))

	done := TrackQuery("select", "post")
	done()
	assert.Equal(t, 1, testutil.CollectAndCount(DatabaseQueryLatency))
}
