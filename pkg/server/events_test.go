package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/fhirquery/pkg/ty"
)

func TestEventBroker_Broadcast(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := NewEventBroker(logger)

	client := b.Subscribe()
	defer b.Unsubscribe(client)
	assert.Equal(t, 1, b.ClientCount())

	b.Broadcast(Event{
		Type: EventConfigReloaded,
		Data: ty.MI{"message": "Configuration reloaded", "timestamp": int64(42)},
	})

	event := <-client
	assert.Equal(t, EventConfigReloaded, event.Type)
	assert.Equal(t, "Configuration reloaded", event.Data["message"])

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"config-reloaded","data":{"message":"Configuration reloaded","timestamp":42}}`, string(data))
}

func TestEventBroker_UnsubscribeClosesChannel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := NewEventBroker(logger)

	client := b.Subscribe()
	b.Unsubscribe(client)

	_, open := <-client
	assert.False(t, open)
	assert.Equal(t, 0, b.ClientCount())
}
