package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrPublisherClosed = errors.New("publisher closed")

// KafkaPublisher queues messages on a buffered inbox drained by a single
// goroutine. The topic is set per message, so one writer serves every topic.
type KafkaPublisher struct {
	w        *kafka.Writer
	producer string

	mu      sync.RWMutex
	closed  bool
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewKafkaPublisher(brokers []string, producer string, buf int) *KafkaPublisher {
	if buf <= 0 {
		buf = 1
	}
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					zap.L().Warn("kafka write failed", zap.Int("messages", len(messages)), zap.Error(err))
				}
			},
		},
		producer: producer,
		inbox:    make(chan kafka.Message, buf),
		closeCh:  make(chan struct{}),
	}
}

func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				zap.L().Warn("kafka enqueue failed", zap.String("topic", m.Topic), zap.Error(err))
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			zap.L().Warn("kafka writer close", zap.Error(err))
		}
	}()
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	env, err := NewEnvelope(p.producer, topic, key, payload)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	m := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(topic)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages; the loop flushes what is queued.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
}

// WaitClosed blocks until the queued messages have been handed to the writer.
func (p *KafkaPublisher) WaitClosed() { <-p.closeCh }
