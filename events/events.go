package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TopicProductCreated  = "catalog.product.created"
	TopicCartItemAdded   = "cart.item.added"
	TopicCartItemUpdated = "cart.item.updated"
	TopicCartItemRemoved = "cart.item.removed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ProductCreatedPayload struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Admin     string `json:"admin"`
}

type CartItemPayload struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id,omitempty"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// Publisher delivers domain events. Implementations must not block the
// caller for long; delivery failures are not reported back to requests.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

func NewEnvelope(producer, topic, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     topic,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, topic, key string, payload any) error {
	env, err := NewEnvelope("recorder", topic, key, payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.events = append(r.events, env)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

// Topics lists the recorded event types in publish order.
func (r *Recorder) Topics() []string {
	evs := r.Events()
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.EventType)
	}
	return out
}
