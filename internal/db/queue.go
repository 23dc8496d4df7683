package db

import (
	"database/sql"
	"encoding/json"
	"time"

	apperrors "github.com/lmazzini/ecoponto/internal/errors"
	"github.com/lmazzini/ecoponto/internal/models"
	"github.com/lmazzini/ecoponto/internal/uuid"
)

// QueueStore is the durable FIFO log of mutations buffered while offline.
// Replay order comes from an autoincrement sequence, not from timestamps:
// rapid successive enqueues within the same clock tick still drain in
// insertion order.
//
// Owned exclusively by the sync service.
type QueueStore struct {
	db *sql.DB
}

// NewQueueStore creates a QueueStore over the given database.
func NewQueueStore(db *DB) *QueueStore {
	return &QueueStore{db: db.DB}
}

// Enqueue appends one operation and returns its id. The insert is a
// single atomic statement, so near-simultaneous mutation attempts cannot
// interleave partial writes or collide on ids.
func (s *QueueStore) Enqueue(op models.OpKind, payload json.RawMessage) (string, error) {
	if !op.Valid() {
		return "", apperrors.Newf(apperrors.ErrInvalid, "unknown operation kind %q", op)
	}

	id := uuid.New()
	_, err := s.db.Exec(
		"INSERT INTO operation_queue (id, operation, payload, created_at) VALUES (?, ?, ?, ?)",
		id, string(op), string(payload), time.Now().Unix(),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrLocalStorage, "failed to enqueue operation", err)
	}
	return id, nil
}

// ListPending returns all queued operations oldest-first. The drain
// routine must process them in exactly this order.
func (s *QueueStore) ListPending() ([]models.QueuedOperation, error) {
	rows, err := s.db.Query(
		"SELECT id, operation, payload, created_at FROM operation_queue ORDER BY seq ASC",
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to list queue", err)
	}
	defer rows.Close()

	var ops []models.QueuedOperation
	for rows.Next() {
		var op models.QueuedOperation
		var kind, payload string
		if err := rows.Scan(&op.ID, &kind, &payload, &op.CreatedAt); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to scan queue entry", err)
		}
		op.Op = models.OpKind(kind)
		op.Payload = json.RawMessage(payload)
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to iterate queue", err)
	}
	return ops, nil
}

// RemapID rewrites every queued payload that references a provisional
// record id to carry the server-assigned id instead. Called as soon as a
// replayed create learns its server id, so entries still awaiting replay
// never target a provisional id the remote store has no row for. The
// rewrite is durable: a drain that stops after the create still resumes
// against remapped entries.
//
// Plain text replacement is sound here because provisional ids embed a
// uuid and cannot collide with payload field names or values.
func (s *QueueStore) RemapID(provisional, server string) error {
	if !models.PointID(provisional).IsProvisional() {
		return apperrors.Newf(apperrors.ErrInvalid, "id %q is not provisional", provisional)
	}
	_, err := s.db.Exec(
		"UPDATE operation_queue SET payload = replace(payload, ?, ?)",
		provisional, server,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to remap queued ids", err)
	}
	return nil
}

// Dequeue removes exactly the entry with the given id. Called once per
// entry after its replay is confirmed; never used to batch-clear.
func (s *QueueStore) Dequeue(id string) error {
	res, err := s.db.Exec("DELETE FROM operation_queue WHERE id = ?", id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to dequeue operation", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.Newf(apperrors.ErrNotFound, "queue entry %s not found", id)
	}
	return nil
}

// Len returns the number of queued operations.
func (s *QueueStore) Len() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM operation_queue").Scan(&n); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to count queue", err)
	}
	return n, nil
}
