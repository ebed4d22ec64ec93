// Package coordinator owns task lifecycle tracking and spec consolidation.
// The coordinator routes incoming tasks to capable agents, records their
// progress, and folds completed work into the aggregate document.
package coordinator

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"agent-hive/internal/core"
	"agent-hive/internal/eventbus"
	"agent-hive/internal/lifecycle"
	"agent-hive/internal/roster"
	"agent-hive/internal/router"
	"agent-hive/internal/storage"
)

// Default blob layout.
const (
	DefaultArtifactsDir  = "artifacts"
	DefaultAggregateName = "active_spec"
)

// ArtifactName returns the blob name a worker writes its temp spec to.
func ArtifactName(artifactsDir, agentID, taskID string) string {
	return path.Join(artifactsDir, agentID+"_"+taskID+"_spec")
}

type completion struct {
	AgentID string
	TaskID  string
}

// Coordinator receives NEW_TASK messages, delegates them by capability, and
// consolidates the artifacts signalled by TASK_COMPLETE. It is the only
// stateful component; all of its state lives in memory except what the
// consolidation pipeline writes through the store.
type Coordinator struct {
	id       string
	bus      eventbus.Bus
	store    storage.Store
	provider roster.Provider
	ledger   *Ledger
	machine  *lifecycle.Machine
	ids      *core.IDGenerator
	logger   zerolog.Logger

	artifactsDir  string
	aggregateName string

	mu     sync.Mutex
	roster *roster.Roster
	active map[string]*core.Task
	queue  []completion
}

// New creates a coordinator and registers its bus handlers. The ledger may
// be nil to disable retirement records.
func New(id string, bus eventbus.Bus, store storage.Store, provider roster.Provider, ledger *Ledger, logger zerolog.Logger) *Coordinator {
	c := &Coordinator{
		id:            id,
		bus:           bus,
		store:         store,
		provider:      provider,
		ledger:        ledger,
		machine:       lifecycle.NewTaskLifecycle(),
		ids:           &core.IDGenerator{},
		logger:        logger,
		artifactsDir:  DefaultArtifactsDir,
		aggregateName: DefaultAggregateName,
		roster:        &roster.Roster{},
		active:        make(map[string]*core.Task),
	}
	bus.Register(id, core.TypeNewTask, c.handleNewTask)
	bus.Register(id, core.TypeTaskComplete, c.handleTaskComplete)
	return c
}

// ID returns the coordinator's agent identifier.
func (c *Coordinator) ID() string { return c.id }

// Start loads the capability roster and begins listening on the bus.
func (c *Coordinator) Start(ctx context.Context) error {
	ros, err := c.provider.Load(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.roster = ros
	c.mu.Unlock()
	c.bus.Start(c.id)
	return nil
}

// Stop stops listening on the bus. Tracked tasks are kept; a restart loses
// them, which the completion handler tolerates.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.bus.Stop(c.id)
	return nil
}

// handleNewTask creates a task record, routes it, and delegates it. The
// delegated publish happens on the same call stack, so by the time Publish
// for NEW_TASK returns the whole cascade has run.
func (c *Coordinator) handleNewTask(ctx context.Context, msg core.Message) error {
	taskID := msg.GetString(core.FieldTaskID)
	if taskID == "" {
		taskID = c.ids.Next()
	}
	payload := msg.GetString(core.FieldPayload)

	task := &core.Task{ID: taskID, Payload: payload, Status: core.StatusRouting}

	c.mu.Lock()
	c.active[taskID] = task
	target := router.Route(payload, c.roster, c.id)
	task.AssignedAgent = target
	if err := c.machine.Advance(task, core.StatusDelegated); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.logger.Info().Str("task", taskID).Str("agent", target).Msg("task delegated")

	return c.bus.Publish(ctx, target, core.NewMessage(core.TypeDelegatedTask, map[string]any{
		core.FieldTaskID:  taskID,
		core.FieldPayload: payload,
	}))
}

// handleTaskComplete validates the completion signal, advances the task,
// and runs consolidation. Completions for unknown tasks are honored: they
// may be redeliveries from before a restart or a prior cleanup.
func (c *Coordinator) handleTaskComplete(ctx context.Context, msg core.Message) error {
	agentID := msg.GetString(core.FieldAgentID)
	taskID := msg.GetString(core.FieldTaskID)
	if agentID == "" || taskID == "" {
		c.logger.Warn().Str("type", msg.Type).Msg("ignoring completion with missing fields")
		return nil
	}

	c.mu.Lock()
	if task, ok := c.active[taskID]; ok && task.Status == core.StatusCompleted {
		// Completed but still queued means a consolidation retry is owed
		// (the previous append failed); anything else is a duplicate.
		if !c.pendingLocked(taskID) {
			c.mu.Unlock()
			c.logger.Debug().Str("task", taskID).Msg("duplicate completion ignored")
			return nil
		}
	} else {
		if ok {
			if err := c.machine.Advance(task, core.StatusCompleted); err != nil {
				c.logger.Error().Err(err).Str("task", taskID).Msg("completion in unexpected status")
			}
		}
		c.queue = append(c.queue, completion{AgentID: agentID, TaskID: taskID})
	}
	c.mu.Unlock()

	return c.consolidate(ctx, agentID, taskID)
}

// pendingLocked reports whether a completion for taskID awaits
// consolidation. Caller holds c.mu.
func (c *Coordinator) pendingLocked(taskID string) bool {
	for _, item := range c.queue {
		if item.TaskID == taskID {
			return true
		}
	}
	return false
}

// cleanupTask retires a task: it leaves the active set and the completion
// queue entirely. Retirement is recorded in the ledger when one is attached.
func (c *Coordinator) cleanupTask(ctx context.Context, agentID, taskID, outcome string) {
	c.mu.Lock()
	delete(c.active, taskID)
	kept := c.queue[:0]
	for _, item := range c.queue {
		if item.TaskID != taskID {
			kept = append(kept, item)
		}
	}
	c.queue = kept
	c.mu.Unlock()

	if c.ledger != nil {
		if err := c.ledger.Record(ctx, Entry{TaskID: taskID, AgentID: agentID, Outcome: outcome}); err != nil {
			c.logger.Warn().Err(err).Str("task", taskID).Msg("ledger record failed")
		}
	}
}

// ActiveTaskIDs returns the IDs of non-terminal tasks, sorted.
func (c *Coordinator) ActiveTaskIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Task returns a copy of a tracked task.
func (c *Coordinator) Task(taskID string) (core.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	task, ok := c.active[taskID]
	if !ok {
		return core.Task{}, false
	}
	return *task, true
}

// QueueLength reports how many completions await consolidation.
func (c *Coordinator) QueueLength() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// NextTaskID generates a fresh sequential task identifier.
func (c *Coordinator) NextTaskID() string { return c.ids.Next() }

var _ core.Agent = (*Coordinator)(nil)
