package core

import "context"

// Agent defines the minimal behaviour expected from any agent. Agents
// register their own bus handlers; Start and Stop gate delivery.
type Agent interface {
	ID() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
