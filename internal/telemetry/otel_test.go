package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/internal/telemetry"
)

func TestSetupDisabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := telemetry.Setup(context.Background(), config.TelemetryConfig{}, &buf)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestSetupExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, config.TelemetryConfig{Enabled: true, ServiceName: "lineage-test"}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry_test").Start(ctx, "unit-of-work")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), "unit-of-work")
	assert.Contains(t, buf.String(), "lineage-test")
	// a second shutdown has nothing left to stop
	assert.NoError(t, shutdown(ctx))
}

func TestServiceName(t *testing.T) {
	assert.Equal(t, telemetry.DefaultServiceName, telemetry.ServiceName(config.TelemetryConfig{}))
	assert.Equal(t, "x", telemetry.ServiceName(config.TelemetryConfig{ServiceName: "x"}))
}
