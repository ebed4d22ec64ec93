// Package probe provides a minimal validation worker. It performs no
// reasoning: it writes a static report artifact for every delegated task
// and signals completion, which is enough to exercise routing, storage,
// and consolidation end to end.
package probe

import (
	"context"

	"github.com/rs/zerolog"

	"agent-hive/internal/coordinator"
	"agent-hive/internal/core"
	"agent-hive/internal/eventbus"
	"agent-hive/internal/storage"
)

const reportBody = `# Probe Agent Report

The framework routed this task correctly.
Agent signaling works.
Storage-backed state works.
`

// Agent is the placeholder worker.
type Agent struct {
	id            string
	bus           eventbus.Bus
	store         storage.Store
	coordinatorID string
	artifactsDir  string
	logger        zerolog.Logger
}

// New creates a probe agent and registers its bus handler. Completion
// signals are addressed to coordinatorID.
func New(id string, bus eventbus.Bus, store storage.Store, coordinatorID string, logger zerolog.Logger) *Agent {
	a := &Agent{
		id:            id,
		bus:           bus,
		store:         store,
		coordinatorID: coordinatorID,
		artifactsDir:  coordinator.DefaultArtifactsDir,
		logger:        logger,
	}
	bus.Register(id, core.TypeDelegatedTask, a.handleDelegatedTask)
	return a
}

// ID returns the probe's agent identifier.
func (a *Agent) ID() string { return a.id }

// Start begins listening on the bus.
func (a *Agent) Start(ctx context.Context) error {
	a.bus.Start(a.id)
	return nil
}

// Stop stops listening on the bus.
func (a *Agent) Stop(ctx context.Context) error {
	a.bus.Stop(a.id)
	return nil
}

// handleDelegatedTask writes the static report artifact and emits
// TASK_COMPLETE. A delegation without a task id is ignored.
func (a *Agent) handleDelegatedTask(ctx context.Context, msg core.Message) error {
	taskID := msg.GetString(core.FieldTaskID)
	if taskID == "" {
		return nil
	}

	name := coordinator.ArtifactName(a.artifactsDir, a.id, taskID)
	if err := a.store.WriteText(ctx, name, reportBody); err != nil {
		return err
	}
	a.logger.Debug().Str("task", taskID).Str("artifact", name).Msg("probe report written")

	return a.bus.Publish(ctx, a.coordinatorID, core.NewMessage(core.TypeTaskComplete, map[string]any{
		core.FieldAgentID: a.id,
		core.FieldTaskID:  taskID,
	}))
}

var _ core.Agent = (*Agent)(nil)
