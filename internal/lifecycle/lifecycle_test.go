package lifecycle

import (
	"testing"

	"agent-hive/internal/core"
)

func TestTaskLifecycleAdvance(t *testing.T) {
	m := NewTaskLifecycle()
	task := &core.Task{ID: "TASK-001", Status: core.StatusRouting}

	if err := m.Advance(task, core.StatusDelegated); err != nil {
		t.Fatalf("routing -> delegated: %v", err)
	}
	if err := m.Advance(task, core.StatusCompleted); err != nil {
		t.Fatalf("delegated -> completed: %v", err)
	}
	if task.Status != core.StatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}
}

func TestTaskLifecycleRejectsSkipsAndReversals(t *testing.T) {
	m := NewTaskLifecycle()

	task := &core.Task{ID: "t", Status: core.StatusRouting}
	if err := m.Advance(task, core.StatusCompleted); err == nil {
		t.Fatal("routing -> completed must be rejected")
	}
	if task.Status != core.StatusRouting {
		t.Fatalf("failed advance must not mutate status, got %s", task.Status)
	}

	task.Status = core.StatusCompleted
	if err := m.Advance(task, core.StatusDelegated); err == nil {
		t.Fatal("completed -> delegated must be rejected")
	}
	if err := m.Advance(task, core.StatusRouting); err == nil {
		t.Fatal("completed -> routing must be rejected")
	}
}

func TestCanAdvance(t *testing.T) {
	m := NewTaskLifecycle()
	if !m.CanAdvance(core.StatusRouting, core.StatusDelegated) {
		t.Fatal("routing -> delegated should be legal")
	}
	if m.CanAdvance(core.StatusDelegated, core.StatusRouting) {
		t.Fatal("delegated -> routing should be illegal")
	}
}
