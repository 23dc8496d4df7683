// Package sync implements the offline-resilient synchronization core:
// reads fall back to the local cache, writes made offline are buffered
// in a durable queue, and reconnection drains the queue against the
// remote store in FIFO order.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lmazzini/ecoponto/internal/connectivity"
	"github.com/lmazzini/ecoponto/internal/db"
	apperrors "github.com/lmazzini/ecoponto/internal/errors"
	"github.com/lmazzini/ecoponto/internal/metrics"
	"github.com/lmazzini/ecoponto/internal/models"
	"github.com/lmazzini/ecoponto/internal/uuid"
)

// RemoteStore is the contract the hosted backend must satisfy. List
// returns rows ordered by display_order ascending; Insert returns the
// canonical record including the server-assigned id.
type RemoteStore interface {
	List(ctx context.Context, resource string) ([]models.PointRecord, error)
	Insert(ctx context.Context, resource string, rec models.PointRecord) (models.PointRecord, error)
	Update(ctx context.Context, resource, id string, rec models.PointRecord) (models.PointRecord, error)
	Upsert(ctx context.Context, resource string, recs []models.PointRecord) error
	Delete(ctx context.Context, resource, id string) error
}

// Service orchestrates every read and write of collection points. It is
// the sole owner of the cache and the queue.
type Service struct {
	remote   RemoteStore
	cache    *db.CacheStore
	queue    *db.QueueStore
	monitor  *connectivity.Monitor
	logger   *slog.Logger
	resource string

	mu       sync.Mutex
	draining bool
	loadGen  uint64
}

// NewService wires the sync service over its stores. The service assumes
// exclusive ownership of cache and queue from this point on.
func NewService(remote RemoteStore, cache *db.CacheStore, queue *db.QueueStore, monitor *connectivity.Monitor, logger *slog.Logger, resource string) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		remote:   remote,
		cache:    cache,
		queue:    queue,
		monitor:  monitor,
		logger:   logger,
		resource: resource,
	}
}

// BindMonitor registers the drain trigger: every transition to online
// starts a drain pass in the background. Kept separate from NewService
// so hosts (and tests) control when automatic draining starts.
func (s *Service) BindMonitor() {
	// The transition callback only fires on changes; seed the gauge with
	// the current state so it is correct before the first transition.
	if s.monitor.Online() {
		metrics.Connectivity.Set(1)
	} else {
		metrics.Connectivity.Set(0)
	}
	s.monitor.OnChange(func(online bool) {
		if online {
			metrics.Connectivity.Set(1)
			go func() {
				if _, err := s.Drain(context.Background()); err != nil {
					s.logger.Warn("automatic drain stopped", "error", err)
				}
			}()
		} else {
			metrics.Connectivity.Set(0)
		}
	})
}

// LoadPoints is the read path. Online it lists the remote store, mirrors
// the result into the cache, and returns it; on any remote failure, or
// offline from the start, it serves the cache instead. Staleness is
// accepted: cached reads never raise an error just for being cached.
func (s *Service) LoadPoints(ctx context.Context) ([]models.CollectionPoint, error) {
	gen := s.nextLoadGen()

	if s.monitor.Online() {
		recs, err := s.remote.List(ctx, s.resource)
		if err == nil {
			metrics.RemoteCalls.WithLabelValues("list", "ok").Inc()
			if !s.loadSuperseded(gen) {
				if cerr := s.cache.ReplaceAll(recs); cerr != nil {
					// A cache refresh failure does not invalidate the
					// fresh remote data the caller asked for.
					s.logger.Error("cache refresh failed", "error", cerr)
				}
				return models.ToPoints(recs), nil
			}
			// A newer load finished while this response was in flight;
			// fall through to the cache it already refreshed.
			s.logger.Debug("discarding superseded list response", "generation", gen)
		} else {
			metrics.RemoteCalls.WithLabelValues("list", outcomeOf(err)).Inc()
			s.logger.Warn("remote list failed, serving cache", "error", err)
		}
	}

	metrics.CacheFallbacks.Inc()
	recs, err := s.cache.GetAll()
	if err != nil {
		return nil, err
	}
	return models.ToPoints(recs), nil
}

// CreatePoint writes a new collection point. Online failures are real
// errors and are never demoted to the queue; offline the write is
// optimistic, stored under a provisional id, and buffered for replay.
func (s *Service) CreatePoint(ctx context.Context, p models.CollectionPoint) (models.CollectionPoint, error) {
	rec := p.ToRecord()

	if s.monitor.Online() {
		created, err := s.remote.Insert(ctx, s.resource, rec)
		if err != nil {
			metrics.RemoteCalls.WithLabelValues("insert", outcomeOf(err)).Inc()
			return models.CollectionPoint{}, err
		}
		metrics.RemoteCalls.WithLabelValues("insert", "ok").Inc()
		if err := s.cache.Put(created); err != nil {
			return models.CollectionPoint{}, err
		}
		return created.ToPoint(), nil
	}

	rec.ID = uuid.NewProvisional().String()
	if err := s.cache.Put(rec); err != nil {
		return models.CollectionPoint{}, err
	}
	if err := s.enqueue(models.OpCreate, rec); err != nil {
		return models.CollectionPoint{}, err
	}
	return rec.ToPoint(), nil
}

// UpdatePoint writes changes to an existing point, online or buffered.
func (s *Service) UpdatePoint(ctx context.Context, p models.CollectionPoint) (models.CollectionPoint, error) {
	if p.ID == "" {
		return models.CollectionPoint{}, apperrors.New(apperrors.ErrInvalid, "update requires an id")
	}
	rec := p.ToRecord()

	if s.monitor.Online() {
		updated, err := s.remote.Update(ctx, s.resource, rec.ID, rec)
		if err != nil {
			metrics.RemoteCalls.WithLabelValues("update", outcomeOf(err)).Inc()
			return models.CollectionPoint{}, err
		}
		metrics.RemoteCalls.WithLabelValues("update", "ok").Inc()
		if err := s.cache.Put(updated); err != nil {
			return models.CollectionPoint{}, err
		}
		return updated.ToPoint(), nil
	}

	if err := s.cache.Put(rec); err != nil {
		return models.CollectionPoint{}, err
	}
	if err := s.enqueue(models.OpUpdate, rec); err != nil {
		return models.CollectionPoint{}, err
	}
	return rec.ToPoint(), nil
}

// DeletePoint removes a point, online or buffered.
func (s *Service) DeletePoint(ctx context.Context, id models.PointID) error {
	if id == "" {
		return apperrors.New(apperrors.ErrInvalid, "delete requires an id")
	}

	if s.monitor.Online() {
		if err := s.remote.Delete(ctx, s.resource, id.String()); err != nil {
			metrics.RemoteCalls.WithLabelValues("delete", outcomeOf(err)).Inc()
			return err
		}
		metrics.RemoteCalls.WithLabelValues("delete", "ok").Inc()
		return s.cache.Delete(id.String())
	}

	if err := s.cache.Delete(id.String()); err != nil {
		return err
	}
	return s.enqueue(models.OpDelete, models.DeletePayload{ID: id.String()})
}

// ReorderAll submits one renumbered full ordering as a single bulk
// upsert, online or buffered.
func (s *Service) ReorderAll(ctx context.Context, points []models.CollectionPoint) error {
	recs := models.ToRecords(points)

	if s.monitor.Online() {
		if err := s.remote.Upsert(ctx, s.resource, recs); err != nil {
			metrics.RemoteCalls.WithLabelValues("upsert", outcomeOf(err)).Inc()
			return err
		}
		metrics.RemoteCalls.WithLabelValues("upsert", "ok").Inc()
		for _, rec := range recs {
			if err := s.cache.Put(rec); err != nil {
				return err
			}
		}
		return nil
	}

	for _, rec := range recs {
		if err := s.cache.Put(rec); err != nil {
			return err
		}
	}
	return s.enqueue(models.OpReorder, recs)
}

// PendingOperations returns how many buffered mutations await replay.
func (s *Service) PendingOperations() (int, error) {
	return s.queue.Len()
}

// PruneCache evicts cached records older than the horizon. Advisory
// hygiene only; safe to call on any schedule.
func (s *Service) PruneCache(horizon time.Duration) (int, error) {
	return s.cache.PruneOlderThan(horizon)
}

// enqueue marshals the payload and appends it to the durable queue.
func (s *Service) enqueue(op models.OpKind, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to encode queued payload", err)
	}
	id, err := s.queue.Enqueue(op, data)
	if err != nil {
		return err
	}
	s.updateQueueDepth()
	s.logger.Info("operation buffered for replay", "operation", string(op), "queue_id", id)
	return nil
}

func (s *Service) updateQueueDepth() {
	if n, err := s.queue.Len(); err == nil {
		metrics.QueueDepth.Set(float64(n))
	}
}

// nextLoadGen advances the monotonic load counter guarding against stale
// list responses being applied after a newer load superseded them.
func (s *Service) nextLoadGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadGen++
	return s.loadGen
}

func (s *Service) loadSuperseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.loadGen
}

// outcomeOf maps an error to its metrics label.
func outcomeOf(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrConnectivity:
		return "connectivity"
	case apperrors.ErrRemoteRejected:
		return "rejected"
	default:
		return "error"
	}
}
