package sync

import (
	"context"
	"encoding/json"

	apperrors "github.com/lmazzini/ecoponto/internal/errors"
	"github.com/lmazzini/ecoponto/internal/metrics"
	"github.com/lmazzini/ecoponto/internal/models"
)

// DrainResult summarizes one drain pass.
type DrainResult struct {
	Replayed  int
	Remaining int
	// FailedID is the queue id of the entry that stopped the pass, if any.
	FailedID string
}

// Drain replays the buffered operations against the remote store in
// strict FIFO order. Each entry is dequeued individually after its replay
// is confirmed, so a crash mid-drain leaves only confirmed entries
// removed. The pass stops at the first failure, leaving that entry and
// everything after it queued in order: skipping ahead could replay
// dependent mutations out of order.
//
// A drain while offline, or while another drain is in progress, is a
// no-op, never a concurrent second pass.
func (s *Service) Drain(ctx context.Context) (*DrainResult, error) {
	if !s.monitor.Online() {
		metrics.Drains.WithLabelValues("noop").Inc()
		return &DrainResult{}, nil
	}

	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		metrics.Drains.WithLabelValues("noop").Inc()
		return &DrainResult{}, nil
	}
	s.draining = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
		s.updateQueueDepth()
	}()

	pending, err := s.queue.ListPending()
	if err != nil {
		metrics.Drains.WithLabelValues("stopped").Inc()
		return nil, err
	}
	if len(pending) == 0 {
		metrics.Drains.WithLabelValues("complete").Inc()
		return &DrainResult{}, nil
	}

	s.logger.Info("draining offline queue", "pending", len(pending))
	result := &DrainResult{Remaining: len(pending)}

	// Provisional ids assigned a server id by a create replayed earlier in
	// this pass. Entries after that create were enqueued against the
	// provisional id and must be rewritten before dispatch; the queue rows
	// themselves are remapped durably as each create confirms.
	remap := make(map[string]string)

	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			metrics.Drains.WithLabelValues("stopped").Inc()
			return result, apperrors.Wrap(apperrors.ErrDrainStopped, "drain canceled", err)
		}

		if err := s.replay(ctx, entry, remap); err != nil {
			metrics.DrainOperations.WithLabelValues(string(entry.Op), "failed").Inc()
			metrics.Drains.WithLabelValues("stopped").Inc()
			result.FailedID = entry.ID
			s.logger.Warn("drain stopped on failed replay",
				"operation", string(entry.Op), "queue_id", entry.ID, "error", err)
			return result, apperrors.Wrap(apperrors.ErrDrainStopped, "replay failed, queue retained", err)
		}

		if err := s.queue.Dequeue(entry.ID); err != nil {
			metrics.Drains.WithLabelValues("stopped").Inc()
			result.FailedID = entry.ID
			return result, err
		}

		metrics.DrainOperations.WithLabelValues(string(entry.Op), "replayed").Inc()
		result.Replayed++
		result.Remaining--
	}

	metrics.Drains.WithLabelValues("complete").Inc()
	s.logger.Info("offline queue drained", "replayed", result.Replayed)
	return result, nil
}

// replay dispatches one queued entry to the remote store and mirrors the
// confirmed result into the cache. remap translates provisional record
// ids to the server ids assigned earlier in the pass: a provisional id is
// never sent to the remote store once its create has confirmed.
func (s *Service) replay(ctx context.Context, entry models.QueuedOperation, remap map[string]string) error {
	switch entry.Op {
	case models.OpCreate:
		var rec models.PointRecord
		if err := json.Unmarshal(entry.Payload, &rec); err != nil {
			return apperrors.Wrap(apperrors.ErrParse, "malformed queued create", err)
		}
		provisional := rec.ID
		created, err := s.remote.Insert(ctx, s.resource, rec)
		if err != nil {
			return err
		}
		// The server-assigned id supersedes the provisional one, both in
		// the cache and in every entry still queued behind this create.
		if models.PointID(provisional).IsProvisional() {
			remap[provisional] = created.ID
			if err := s.queue.RemapID(provisional, created.ID); err != nil {
				return err
			}
			if err := s.cache.Delete(provisional); err != nil {
				return err
			}
		}
		return s.cache.Put(created)

	case models.OpUpdate:
		var rec models.PointRecord
		if err := json.Unmarshal(entry.Payload, &rec); err != nil {
			return apperrors.Wrap(apperrors.ErrParse, "malformed queued update", err)
		}
		if server, ok := remap[rec.ID]; ok {
			rec.ID = server
		}
		updated, err := s.remote.Update(ctx, s.resource, rec.ID, rec)
		if err != nil {
			return err
		}
		return s.cache.Put(updated)

	case models.OpDelete:
		var payload models.DeletePayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			return apperrors.Wrap(apperrors.ErrParse, "malformed queued delete", err)
		}
		if server, ok := remap[payload.ID]; ok {
			payload.ID = server
		}
		if err := s.remote.Delete(ctx, s.resource, payload.ID); err != nil {
			return err
		}
		return s.cache.Delete(payload.ID)

	case models.OpReorder:
		var recs []models.PointRecord
		if err := json.Unmarshal(entry.Payload, &recs); err != nil {
			return apperrors.Wrap(apperrors.ErrParse, "malformed queued reorder", err)
		}
		for i := range recs {
			if server, ok := remap[recs[i].ID]; ok {
				recs[i].ID = server
			}
		}
		if err := s.remote.Upsert(ctx, s.resource, recs); err != nil {
			return err
		}
		for _, rec := range recs {
			if err := s.cache.Put(rec); err != nil {
				return err
			}
		}
		return nil

	default:
		return apperrors.Newf(apperrors.ErrInvalid, "unknown queued operation %q", entry.Op)
	}
}
