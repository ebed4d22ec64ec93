package core

import (
	"fmt"
	"sync"
)

// TaskStatus represents the lifecycle stage of a tracked task.
type TaskStatus int

const (
	StatusRouting TaskStatus = iota
	StatusDelegated
	StatusCompleted
)

// String returns the lowercase name of the status.
func (s TaskStatus) String() string {
	switch s {
	case StatusRouting:
		return "routing"
	case StatusDelegated:
		return "delegated"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Task is a unit of delegated work tracked by the coordinator. A task only
// exists while non-terminal; retirement removes it entirely.
type Task struct {
	ID            string     `json:"id"`
	Payload       string     `json:"payload"`
	Status        TaskStatus `json:"status"`
	AssignedAgent string     `json:"assigned_agent,omitempty"`
}

// IDGenerator produces sequential task identifiers of the form TASK-001.
type IDGenerator struct {
	mu sync.Mutex
	n  int
}

// Next returns the next identifier in sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("TASK-%03d", g.n)
}
