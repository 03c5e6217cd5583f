// Package transport carries marketplace messages between peers. The real
// network is a secure-messaging overlay outside this process; the package
// fixes the envelope format, the collaborator interface the rest of the code
// depends on, and an inbound verify-then-persist listener. A loopback
// implementation stands in for the network in wiring and tests.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"marketplace-backend/internal/logger"

	"github.com/google/uuid"
)

// Envelope is one message on the wire. Kind selects the payload codec on the
// receiving side; the payload itself stays opaque to the transport.
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Payload   json.RawMessage `json:"payload"`
	SentAt    time.Time       `json:"sent_at"`
}

// Receipt acknowledges that an envelope left the local node. It says nothing
// about remote acceptance.
type Receipt struct {
	MessageID uuid.UUID
	SentAt    time.Time
}

// Handler consumes one inbound envelope. A non-nil error means the envelope
// was rejected and nothing was persisted.
type Handler func(ctx context.Context, env Envelope) error

// Transport is the messaging collaborator.
type Transport interface {
	Send(ctx context.Context, from, to, kind string, payload any) (Receipt, error)
	OnMessageReceived(h Handler)
}

// ErrNoReceiver is returned by Send when no handler has been registered yet.
var ErrNoReceiver = errors.New("transport: no receiver registered")

// Loopback delivers every sent envelope straight to the registered handler in
// the sending goroutine. Handler errors surface through Send, which is what
// lets tests assert that tampered payloads are rejected end to end.
type Loopback struct {
	mu      sync.RWMutex
	handler Handler
	log     *logger.Logger
}

func NewLoopback(log *logger.Logger) *Loopback {
	return &Loopback{log: log}
}

func (l *Loopback) OnMessageReceived(h Handler) {
	l.mu.Lock()
	l.handler = h
	l.mu.Unlock()
}

func (l *Loopback) Send(ctx context.Context, from, to, kind string, payload any) (Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode payload: %w", err)
	}
	env := Envelope{
		ID:        uuid.New(),
		Kind:      kind,
		Sender:    from,
		Recipient: to,
		Payload:   body,
		SentAt:    time.Now().UTC(),
	}

	l.mu.RLock()
	h := l.handler
	l.mu.RUnlock()
	if h == nil {
		return Receipt{}, ErrNoReceiver
	}
	if err := h(ctx, env); err != nil {
		l.log.Printf("envelope %s (%s) rejected: %v", env.ID, env.Kind, err)
		return Receipt{}, err
	}
	return Receipt{MessageID: env.ID, SentAt: env.SentAt}, nil
}
