package models

import (
	"encoding/json"
	"time"
)

// OpKind classifies a buffered mutation.
type OpKind string

const (
	OpCreate  OpKind = "create"
	OpUpdate  OpKind = "update"
	OpDelete  OpKind = "delete"
	OpReorder OpKind = "reorder"
)

// Valid reports whether the kind is one of the known operations.
func (k OpKind) Valid() bool {
	switch k {
	case OpCreate, OpUpdate, OpDelete, OpReorder:
		return true
	}
	return false
}

// QueuedOperation represents one buffered mutation awaiting remote replay.
// Entries are created when a write is attempted offline, consumed strictly
// in insertion order by the drain routine, and never mutated in place.
type QueuedOperation struct {
	ID        string          `db:"id" json:"id"`
	Op        OpKind          `db:"operation" json:"operation"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	CreatedAt int64           `db:"created_at" json:"created_at"`
}

// TableName returns the table name for QueuedOperation.
func (QueuedOperation) TableName() string {
	return "operation_queue"
}

// Time returns the insertion time. It is kept for ordering diagnostics
// only; replay order comes from the queue sequence, never from the clock.
func (q *QueuedOperation) Time() time.Time {
	return time.Unix(q.CreatedAt, 0)
}

// DeletePayload is the payload carried by a queued delete.
type DeletePayload struct {
	ID string `json:"id"`
}
