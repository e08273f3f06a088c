package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

func TestContextSink_CollectsPerContext(t *testing.T) {
	ctx, inbox := WithInbox(context.Background())
	other, otherInbox := WithInbox(context.Background())

	var sink ContextSink
	sink.Notify(ctx, domain.NewNotification(domain.KindOutOfStock, 1))
	sink.Notify(other, domain.NewNotification(domain.KindAddFailed, 2))
	sink.Notify(context.Background(), domain.NewNotification(domain.KindRemoveFailed, 3))

	require.Len(t, inbox.Notifications(), 1)
	assert.Equal(t, domain.KindOutOfStock, inbox.Notifications()[0].Kind)
	require.Len(t, otherInbox.Notifications(), 1)
	assert.Equal(t, int64(2), otherInbox.Notifications()[0].ProductID)
}

func TestFanout_LogsAndCollects(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sinks := Fanout{NewLogger(logger), ContextSink{}, nil}
	ctx, inbox := WithInbox(context.Background())

	sinks.Notify(ctx, domain.NewNotification(domain.KindUpdateFailed, 9))

	require.Len(t, inbox.Notifications(), 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Failed to update product amount", entry["msg"])
	assert.Equal(t, "update_failed", entry["notification.kind"])
	assert.Equal(t, "WARN", entry["level"])
}
