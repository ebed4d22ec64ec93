package lifecycle

import (
	"fmt"
	"sync"

	"agent-hive/internal/core"
)

// Machine validates task status transitions against a fixed table. Statuses
// only ever advance; there is no transition back toward an earlier stage.
type Machine struct {
	mu          sync.RWMutex
	transitions map[core.TaskStatus]map[core.TaskStatus]bool
}

// NewMachine creates an empty transition table.
func NewMachine() *Machine {
	return &Machine{transitions: make(map[core.TaskStatus]map[core.TaskStatus]bool)}
}

// NewTaskLifecycle returns the machine governing task tracking:
// routing -> delegated -> completed.
func NewTaskLifecycle() *Machine {
	m := NewMachine()
	m.AddTransition(core.StatusRouting, core.StatusDelegated)
	m.AddTransition(core.StatusDelegated, core.StatusCompleted)
	return m
}

// AddTransition registers a legal transition.
func (m *Machine) AddTransition(from, to core.TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[core.TaskStatus]bool)
	}
	m.transitions[from][to] = true
}

// CanAdvance reports whether from -> to is a legal transition.
func (m *Machine) CanAdvance(from, to core.TaskStatus) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transitions[from][to]
}

// Advance moves a task to the target status or fails without mutating it.
func (m *Machine) Advance(task *core.Task, to core.TaskStatus) error {
	if !m.CanAdvance(task.Status, to) {
		return fmt.Errorf("lifecycle: illegal transition %s -> %s for task %s",
			task.Status, to, task.ID)
	}
	task.Status = to
	return nil
}
