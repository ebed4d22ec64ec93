// Package runtime composes the bus, storage, coordinator, and worker agents
// into a runnable system and exposes the task submission API.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"agent-hive/internal/coordinator"
	"agent-hive/internal/core"
	"agent-hive/internal/eventbus"
)

// ErrNotRunning is returned by SubmitTask before Start or after Stop.
var ErrNotRunning = errors.New("runtime: system is not running")

// Status is a point-in-time snapshot of the system.
type Status struct {
	Running         bool
	ActiveTaskCount int
	QueueLength     int
	ActiveTasks     []string
}

// Manager owns the agent set and drives their lifecycle. Agents register
// their bus handlers at construction; the manager only starts and stops
// them, in registration order for Start and reverse order for Stop.
type Manager struct {
	bus         eventbus.Bus
	coordinator *coordinator.Coordinator
	logger      zerolog.Logger

	mu      sync.Mutex
	agents  []core.Agent
	running bool
}

// NewManager creates a manager around a bus and its coordinator. The
// coordinator is started and stopped with the other agents.
func NewManager(bus eventbus.Bus, coord *coordinator.Coordinator, logger zerolog.Logger) *Manager {
	m := &Manager{bus: bus, coordinator: coord, logger: logger}
	m.agents = append(m.agents, coord)
	return m
}

// Register adds an agent to the managed set. Must be called before Start.
func (m *Manager) Register(agent core.Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents = append(m.agents, agent)
}

// Start starts every managed agent. A failed start stops the agents that
// already started.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	for i, agent := range m.agents {
		if err := agent.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = m.agents[j].Stop(ctx)
			}
			return fmt.Errorf("runtime: start agent %s: %w", agent.ID(), err)
		}
		m.logger.Info().Str("agent", agent.ID()).Msg("agent started")
	}
	m.running = true
	return nil
}

// Stop stops every managed agent in reverse registration order.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	for i := len(m.agents) - 1; i >= 0; i-- {
		if err := m.agents[i].Stop(ctx); err != nil {
			m.logger.Warn().Err(err).Str("agent", m.agents[i].ID()).Msg("agent stop failed")
		}
	}
	m.running = false
	return nil
}

// SubmitTask publishes a NEW_TASK for the given description and returns the
// generated task ID.
func (m *Manager) SubmitTask(ctx context.Context, description string) (string, error) {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	if !running {
		return "", ErrNotRunning
	}

	taskID := m.coordinator.NextTaskID()
	msg := core.NewMessage(core.TypeNewTask, map[string]any{
		core.FieldTaskID:  taskID,
		core.FieldPayload: description,
	})
	if err := m.bus.Publish(ctx, m.coordinator.ID(), msg); err != nil {
		return "", err
	}
	return taskID, nil
}

// Status reports the current system state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()

	active := m.coordinator.ActiveTaskIDs()
	return Status{
		Running:         running,
		ActiveTaskCount: len(active),
		QueueLength:     m.coordinator.QueueLength(),
		ActiveTasks:     active,
	}
}
