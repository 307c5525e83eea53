package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestZeroValuesWhenUnset(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, uuid.Nil, DraftID(ctx))
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestRoundTrip(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	ctx := WithDraftID(context.Background(), id)
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithClientMetadata(ctx, "192.0.2.4", "curl/8.5.0")
	ctx = WithTime(ctx, at)

	assert.Equal(t, id, DraftID(ctx))
	assert.Equal(t, "req-9", RequestID(ctx))
	assert.Equal(t, "192.0.2.4", ClientIP(ctx))
	assert.Equal(t, "curl/8.5.0", UserAgent(ctx))
	assert.Equal(t, at, Now(ctx))
}
