package sync

import (
	"context"

	"github.com/lmazzini/ecoponto/internal/models"
)

// Ordering/reordering logic: admin-driven moves over the displayed
// sequence. display_order is renumbered sequentially from 1 and the whole
// set is submitted as one bulk update; ties in stored data are tolerated
// and resolved by the stable listing order.

// Renumber returns a copy of the sequence with display_order assigned
// sequentially starting at 1.
func Renumber(points []models.CollectionPoint) []models.CollectionPoint {
	out := make([]models.CollectionPoint, len(points))
	copy(out, points)
	for i := range out {
		out[i].DisplayOrder = i + 1
	}
	return out
}

// MoveTo moves the item at index from to index to and renumbers. The
// second result is false when the move is a no-op: out-of-bounds indexes
// and from == to leave the sequence unchanged.
func MoveTo(points []models.CollectionPoint, from, to int) ([]models.CollectionPoint, bool) {
	n := len(points)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return points, false
	}

	item := points[from]
	rest := make([]models.CollectionPoint, 0, n-1)
	rest = append(rest, points[:from]...)
	rest = append(rest, points[from+1:]...)

	out := make([]models.CollectionPoint, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, item)
	out = append(out, rest[to:]...)
	return Renumber(out), true
}

// MoveUp moves the item one position earlier. Moving the first item is a
// bounds-checked no-op, not an error.
func MoveUp(points []models.CollectionPoint, index int) ([]models.CollectionPoint, bool) {
	return MoveTo(points, index, index-1)
}

// MoveDown moves the item one position later. Moving the last item is a
// bounds-checked no-op, not an error.
func MoveDown(points []models.CollectionPoint, index int) ([]models.CollectionPoint, bool) {
	if index < 0 || index >= len(points)-1 {
		return points, false
	}
	return MoveTo(points, index, index+1)
}

// Reorder applies a move and submits the renumbered set through the
// write path. No-op moves issue no remote call. If the bulk submit fails
// while online, the optimistic ordering is rolled back by re-reading the
// server-confirmed order; the caller gets that order plus the original
// error.
func (s *Service) Reorder(ctx context.Context, points []models.CollectionPoint, from, to int) ([]models.CollectionPoint, error) {
	moved, changed := MoveTo(points, from, to)
	if !changed {
		return points, nil
	}

	if err := s.ReorderAll(ctx, moved); err != nil {
		if reverted, rerr := s.LoadPoints(ctx); rerr == nil {
			return reverted, err
		}
		return points, err
	}
	return moved, nil
}
