package eventbus

import (
	"context"

	"agent-hive/internal/core"
)

// Handler processes a message delivered to an agent.
type Handler func(ctx context.Context, msg core.Message) error

// Bus defines synchronous agent-addressed dispatch. Publish blocks until
// every handler triggered by the message, directly or transitively, has
// returned.
type Bus interface {
	Register(agentID, msgType string, h Handler)
	Publish(ctx context.Context, to string, msg core.Message) error
	Start(agentID string)
	Stop(agentID string)
}
