package telemetry

import (
	"context"
	"testing"

	"github.com/phrazzld/vitals/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TelemetryConfig{ServiceName: "vitals"}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGlobalInstrumentsAreUsableWithoutInit(t *testing.T) {
	counter, err := Meter().Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	_, span := Tracer().Start(context.Background(), "test")
	span.End()
	assert.False(t, span.SpanContext().IsValid(), "no-op tracer yields invalid span contexts")
}
