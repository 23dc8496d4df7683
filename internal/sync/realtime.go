package sync

import (
	"context"

	"github.com/lmazzini/ecoponto/internal/remote"
)

// HandleRemoteChange is the realtime-subscription callback: any remote
// insert, update, or delete triggers a full reload through the normal
// read path. The cache is never patched incrementally.
func (s *Service) HandleRemoteChange(ctx context.Context) func(remote.ChangeEvent) {
	return func(ev remote.ChangeEvent) {
		s.logger.Debug("remote change received", "type", ev.Type)
		if _, err := s.LoadPoints(ctx); err != nil {
			s.logger.Warn("reload after remote change failed", "error", err)
		}
	}
}
