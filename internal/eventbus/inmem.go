package eventbus

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"agent-hive/internal/core"
)

var (
	// ErrMissingType is returned by Publish for a message with no type.
	ErrMissingType = errors.New("eventbus: message has no type")
	// ErrNotListening is returned by Publish under DeliveryStrict when the
	// target agent is not started.
	ErrNotListening = errors.New("eventbus: target agent is not listening")
)

// DeliveryPolicy controls what Publish does when the target is not listening.
type DeliveryPolicy int

const (
	// DeliveryLenient drops messages to unstarted targets without error.
	DeliveryLenient DeliveryPolicy = iota
	// DeliveryStrict turns such messages into ErrNotListening.
	DeliveryStrict
)

// ParseDeliveryPolicy maps a config string to a policy.
func ParseDeliveryPolicy(s string) (DeliveryPolicy, error) {
	switch s {
	case "", "lenient":
		return DeliveryLenient, nil
	case "strict":
		return DeliveryStrict, nil
	default:
		return DeliveryLenient, fmt.Errorf("eventbus: unknown delivery policy %q", s)
	}
}

// InMemoryBus dispatches messages synchronously on the caller's stack.
// Handlers registered for the same (agent, type) pair run in registration
// order and may themselves call Publish; the lock is never held across a
// handler call, so recursive dispatch cannot deadlock.
type InMemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]Handler // "agentID:msgType" -> handlers
	listening map[string]bool
	policy    DeliveryPolicy
	logger    zerolog.Logger
}

// NewInMemoryBus creates a bus with the given delivery policy.
func NewInMemoryBus(policy DeliveryPolicy, logger zerolog.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers:  make(map[string][]Handler),
		listening: make(map[string]bool),
		policy:    policy,
		logger:    logger,
	}
}

func handlerKey(agentID, msgType string) string {
	return agentID + ":" + msgType
}

// Register appends a handler for (agentID, msgType). Registrations are not
// deduplicated: registering the same handler twice invokes it twice.
func (b *InMemoryBus) Register(agentID, msgType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := handlerKey(agentID, msgType)
	b.handlers[key] = append(b.handlers[key], h)
}

// Start marks an agent as listening. Starting twice is a no-op.
func (b *InMemoryBus) Start(agentID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listening[agentID] = true
}

// Stop marks an agent as no longer listening. Stopping an unstarted agent
// is a no-op.
func (b *InMemoryBus) Stop(agentID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listening, agentID)
}

// Publish delivers msg to every handler registered for (to, msg.Type), in
// registration order. It returns ErrMissingType before any handler runs if
// the message carries no type. When the target is not listening the message
// is dropped (lenient) or rejected (strict). Handler errors and panics are
// logged and do not stop delivery to the remaining handlers.
func (b *InMemoryBus) Publish(ctx context.Context, to string, msg core.Message) error {
	if msg.Type == "" {
		return ErrMissingType
	}

	b.mu.RLock()
	if !b.listening[to] {
		b.mu.RUnlock()
		if b.policy == DeliveryStrict {
			return fmt.Errorf("%w: %s", ErrNotListening, to)
		}
		b.logger.Debug().Str("to", to).Str("type", msg.Type).Msg("dropped message to unstarted agent")
		return nil
	}
	subs := b.handlers[handlerKey(to, msg.Type)]
	queue := make([]Handler, len(subs))
	copy(queue, subs)
	b.mu.RUnlock()

	for _, h := range queue {
		b.safeCall(ctx, h, to, msg)
	}
	return nil
}

// safeCall invokes a handler, absorbing its error or panic so one
// misbehaving handler cannot block delivery.
func (b *InMemoryBus) safeCall(ctx context.Context, h Handler, to string, msg core.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("to", to).
				Str("type", msg.Type).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
		}
	}()
	if err := h(ctx, msg); err != nil {
		b.logger.Error().Err(err).Str("to", to).Str("type", msg.Type).Msg("handler failed")
	}
}

var _ Bus = (*InMemoryBus)(nil)
