package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"agent-hive/internal/storage"
)

// DefaultLedgerName is the blob the retirement ledger is kept in.
const DefaultLedgerName = "task_ledger"

// Entry records one retired task. The live task map holds only non-terminal
// tasks, so the ledger is the sole record that a task ever existed.
type Entry struct {
	TaskID    string    `json:"task_id"`
	AgentID   string    `json:"agent_id"`
	Outcome   string    `json:"outcome"`
	RetiredAt time.Time `json:"retired_at"`
}

// Ledger is an append-only record of task retirements, stored as one JSON
// line per entry. It is best-effort audit data and never influences the
// pipeline's control flow.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store
	name  string
}

// NewLedger creates a ledger persisted under name in the store.
func NewLedger(store storage.Store, name string) *Ledger {
	if name == "" {
		name = DefaultLedgerName
	}
	return &Ledger{store: store, name: name}
}

// Record appends an entry, stamping it with the current time.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.RetiredAt.IsZero() {
		e.RetiredAt = time.Now()
	}
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	existing, err := l.store.ReadText(ctx, l.name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return l.store.WriteText(ctx, l.name, existing+string(line)+"\n")
}

// Entries reads back all recorded retirements.
func (l *Ledger) Entries(ctx context.Context) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	content, err := l.store.ReadText(ctx, l.name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
