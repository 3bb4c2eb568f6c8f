package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.Empty(t, ClientAgent(ctx))
	assert.Empty(t, Operator(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestRoundTrip(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithTime(ctx, fixed)
	ctx = WithClientMetadata(ctx, "192.0.2.7", "curl/8.4.0", "curl")
	ctx = WithOperator(ctx, "ops@example.com")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, "192.0.2.7", ClientIP(ctx))
	assert.Equal(t, "curl/8.4.0", UserAgent(ctx))
	assert.Equal(t, "curl", ClientAgent(ctx))
	assert.Equal(t, "ops@example.com", Operator(ctx))
}
