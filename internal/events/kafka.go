package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher publishes JSON events with one writer per topic
type KafkaPublisher struct {
	mu       sync.Mutex
	writers  map[string]*kafka.Writer
	brokers  []string
	clientID string
	logger   *zap.Logger
}

// NewKafkaPublisher creates a new Kafka publisher
func NewKafkaPublisher(brokers []string, clientID string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writers:  make(map[string]*kafka.Writer),
		brokers:  brokers,
		clientID: clientID,
		logger:   logger,
	}
}

// writer returns the writer for topic, creating it on first use
func (p *KafkaPublisher) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, exists := p.writers[topic]; exists {
		return w
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: p.clientID,
		},
	}

	p.writers[topic] = w
	return w
}

// Publish sends msg to topic. Messages with the same key land on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, msg Message) error {
	value, err := json.Marshal(msg.Value)
	if err != nil {
		p.logger.Error("failed to marshal message", zap.String("topic", topic), zap.Error(err))
		return err
	}

	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(p.clientID)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: time.Now(),
	}

	if err := p.writer(topic).WriteMessages(ctx, kafkaMsg); err != nil {
		p.logger.Error("failed to publish message",
			zap.String("topic", topic),
			zap.String("key", msg.Key),
			zap.Error(err))
		return err
	}

	p.logger.Debug("message published",
		zap.String("topic", topic),
		zap.String("key", msg.Key))

	return nil
}

// Close closes all writers
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			p.logger.Error("failed to close kafka writer", zap.String("topic", topic), zap.Error(err))
		}
	}
	p.writers = make(map[string]*kafka.Writer)
	return nil
}
