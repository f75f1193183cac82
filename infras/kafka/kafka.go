package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"inap/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	batchTimeout = 50 * time.Millisecond

	// HeaderEvent names the event type so consumers can route without decoding the value.
	HeaderEvent = "event"
)

// Message is published with Key as the partition key and Value encoded as JSON.
type Message struct {
	Key   string
	Event string
	Value any
}

func (m Message) encode() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode %s message: %w", m.Event, err)
	}

	msg := kafkaGo.Message{Key: []byte(m.Key), Value: value}

	if m.Event != "" {
		msg.Headers = []kafkaGo.Header{{Key: HeaderEvent, Value: []byte(m.Event)}}
	}

	return msg, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	// Close flushes and closes every topic writer.
	Close() error
}

type producer struct {
	transport *kafkaGo.Transport
	address   net.Addr

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

// New builds the producer. When kafka is disabled the returned client drops messages.
func New(cfg *config.Config) Client {
	brokers := cfg.Kafka.Brokers

	if !cfg.Kafka.Enable || len(brokers) == 0 {
		log.Info().Msg("kafka disabled, events will not be published")

		return noopClient{}
	}

	transport := &kafkaGo.Transport{}

	if sasl := cfg.Kafka.SASL; sasl.Username != "" {
		transport.SASL = plain.Mechanism{Username: sasl.Username, Password: sasl.Password}
	}

	log.Info().Strs("brokers", brokers).Msg("kafka producer ready")

	return &producer{
		transport: transport,
		address:   kafkaGo.TCP(brokers...),
		writers:   map[string]*kafkaGo.Writer{},
	}
}

// writer returns the topic's writer, creating it on first use. Messages with the same key
// land on the same partition.
func (p *producer) writer(topic string) *kafkaGo.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkaGo.Writer{
		Addr:                   p.address,
		Topic:                  topic,
		Transport:              p.transport,
		Balancer:               &kafkaGo.Hash{},
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = w

	return w
}

func (p *producer) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	batch, err := encodeAll(messages)
	if err != nil {
		return err
	}

	if err = p.writer(topic).WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("failed to write %d messages to %s: %w", len(batch), topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(batch)).Msg("messages published")

	return nil
}

func (p *producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to close kafka writer")
		}
	}

	clear(p.writers)

	return nil
}

func encodeAll(messages []Message) ([]kafkaGo.Message, error) {
	batch := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.encode()
		if err != nil {
			return nil, err
		}

		batch = append(batch, msg)
	}

	return batch, nil
}

type noopClient struct{}

func (noopClient) SendMessages(context.Context, string, ...Message) error { return nil }

func (noopClient) Close() error { return nil }
