package core

import (
	"time"

	"github.com/google/uuid"
)

// Recognized message types exchanged over the bus.
const (
	TypeNewTask       = "NEW_TASK"
	TypeDelegatedTask = "DELEGATED_TASK"
	TypeTaskComplete  = "TASK_COMPLETE"
)

// Well-known field keys.
const (
	FieldTaskID  = "task_id"
	FieldPayload = "payload"
	FieldAgentID = "agent_id"
)

// Message is the unit of communication between agents. Type is the only
// field the bus validates; Fields carry the per-type payload.
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Fields    map[string]any `json:"fields,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewMessage builds a message envelope with a fresh ID and timestamp.
func NewMessage(msgType string, fields map[string]any) Message {
	if fields == nil {
		fields = make(map[string]any)
	}
	return Message{
		ID:        uuid.NewString(),
		Type:      msgType,
		Fields:    fields,
		Timestamp: time.Now(),
	}
}

// GetString returns a string field, or "" when absent or not a string.
func (m Message) GetString(key string) string {
	if v, ok := m.Fields[key].(string); ok {
		return v
	}
	return ""
}
