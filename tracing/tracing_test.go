package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("settingsflow", "0.0.1", exporter))

	ctx, parent := StartSpan(context.Background(), "flow.SaveSettings")
	parent.WithAttributes(map[string]string{"form.id": "country"})
	_, child := StartSpan(ctx, "api.PatchSettings")
	EndSpan(child, errors.New("boom"))
	EndSpan(parent, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "api.PatchSettings", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, "flow.SaveSettings", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
}
