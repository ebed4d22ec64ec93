package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agent-hive/internal/storage"
)

// aggregateHeader initializes the aggregate document on first use.
const aggregateHeader = "# Active Specification\n\n"

// Retirement outcomes recorded in the ledger.
const (
	outcomeConsolidated  = "consolidated"
	outcomeNoArtifact    = "no_artifact"
	outcomeReadFailed    = "read_failed"
	outcomeEmptyArtifact = "empty_artifact"
	outcomeUnverified    = "unverified"
)

// consolidate folds a completed task's temp artifact into the aggregate
// document and retires the task. The only failure that propagates is an
// append failure: the artifact and the task record are left untouched so a
// redelivered completion signal can retry. Every other path retires the
// task, whether or not content was consolidated.
func (c *Coordinator) consolidate(ctx context.Context, agentID, taskID string) error {
	name := ArtifactName(c.artifactsDir, agentID, taskID)

	content, err := c.store.ReadText(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		c.cleanupTask(ctx, agentID, taskID, outcomeNoArtifact)
		return nil
	}
	if err != nil {
		// Content is presumed lost; retire rather than retry.
		c.logger.Warn().Err(err).Str("task", taskID).Msg("artifact read failed")
		c.cleanupTask(ctx, agentID, taskID, outcomeReadFailed)
		return nil
	}

	if strings.TrimSpace(content) == "" {
		if err := c.store.DeleteText(ctx, name); err != nil {
			c.logger.Debug().Err(err).Str("artifact", name).Msg("empty artifact delete failed")
		}
		c.cleanupTask(ctx, agentID, taskID, outcomeEmptyArtifact)
		return nil
	}

	if err := c.appendToAggregate(ctx, content, agentID, taskID); err != nil {
		c.logger.Error().Err(err).Str("task", taskID).Msg("aggregate append failed, task held for retry")
		return err
	}

	if c.verifyConsolidated(ctx, content) {
		if err := c.store.DeleteText(ctx, name); err != nil {
			c.logger.Debug().Err(err).Str("artifact", name).Msg("artifact delete failed")
		}
		c.logger.Info().Str("task", taskID).Str("agent", agentID).Msg("spec consolidated")
		c.cleanupTask(ctx, agentID, taskID, outcomeConsolidated)
		return nil
	}

	// The appended content could not be read back. Keep the artifact for
	// external reconciliation but retire the task.
	c.logger.Warn().Str("task", taskID).Str("artifact", name).Msg("consolidation unverified, artifact retained")
	c.cleanupTask(ctx, agentID, taskID, outcomeUnverified)
	return nil
}

// appendToAggregate appends content to the aggregate document behind a
// provenance separator, initializing the document on first use.
func (c *Coordinator) appendToAggregate(ctx context.Context, content, agentID, taskID string) error {
	existing, err := c.store.ReadText(ctx, c.aggregateName)
	if errors.Is(err, storage.ErrNotFound) {
		existing = aggregateHeader
	} else if err != nil {
		return err
	}

	separator := fmt.Sprintf("\n\n---\n## Task: %s (by %s)\n\n", taskID, agentID)
	return c.store.WriteText(ctx, c.aggregateName, existing+separator+content+"\n")
}

// verifyConsolidated re-reads the aggregate and confirms the appended
// content is present, guarding against a lost write that raised no error.
func (c *Coordinator) verifyConsolidated(ctx context.Context, content string) bool {
	aggregate, err := c.store.ReadText(ctx, c.aggregateName)
	if err != nil {
		return false
	}
	return strings.Contains(aggregate, strings.TrimSpace(content))
}
