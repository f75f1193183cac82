package kafka

import (
	"context"
	"testing"

	"inap/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAll(t *testing.T) {
	batch, err := encodeAll([]Message{
		{Key: "r1", Event: "room.updated", Value: map[string]string{"roomId": "r1"}},
		{Key: "r2", Value: 42},
	})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	assert.Equal(t, []byte("r1"), batch[0].Key)
	assert.JSONEq(t, `{"roomId":"r1"}`, string(batch[0].Value))
	require.Len(t, batch[0].Headers, 1)
	assert.Equal(t, HeaderEvent, batch[0].Headers[0].Key)
	assert.Equal(t, []byte("room.updated"), batch[0].Headers[0].Value)

	assert.Equal(t, []byte("42"), batch[1].Value)
	assert.Empty(t, batch[1].Headers)
}

func TestEncodeAll_Unencodable(t *testing.T) {
	_, err := encodeAll([]Message{{Key: "r1", Event: "room.updated", Value: make(chan int)}})

	assert.ErrorContains(t, err, "room.updated")
}

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	client := New(cfg)

	assert.IsType(t, noopClient{}, client)
	assert.NoError(t, client.SendMessages(context.Background(), "inap.room", Message{Key: "r1"}))
	assert.NoError(t, client.Close())
}

func TestProducer_WriterPerTopic(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.SASL.Username = "inap"

	p, ok := New(cfg).(*producer)
	require.True(t, ok)

	assert.NotNil(t, p.transport.SASL)
	assert.Same(t, p.writer("inap.room"), p.writer("inap.room"))
	assert.NotSame(t, p.writer("inap.room"), p.writer("inap.booking"))

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}
