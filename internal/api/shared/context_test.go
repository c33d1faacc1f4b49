package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := SetTraceID(context.Background())

	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, TraceIDLength*2, "trace ID is hex-encoded")

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other, "trace IDs are unique per request")
}

func TestGetTraceIDWithoutValue(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}
