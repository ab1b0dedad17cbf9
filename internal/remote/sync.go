package remote

import (
	"context"
	"fmt"

	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/store"
)

// MigrateIfNeeded performs the one-time push of local data to the mirror
// backend. A persisted flag gates it so defaults never overwrite real
// remote data on later launches, and it only runs after the local load has
// completed (the caller passes loaded state, not defaults).
func MigrateIfNeeded(ctx context.Context, s *store.Store, c *Client, col *library.Collection) error {
	if !c.Enabled() || s.RemoteMigrated() {
		return nil
	}

	players, err := s.LoadPlayers()
	if err != nil {
		return fmt.Errorf("load players for migration: %w", err)
	}
	if err := c.UpsertProfile(ctx, players); err != nil {
		return err
	}
	if err := c.UpsertSettings(ctx, s.LoadSettings()); err != nil {
		return err
	}
	for _, kind := range library.Kinds {
		if err := c.ReplaceLibrary(ctx, kind, col.Library(kind)); err != nil {
			return err
		}
	}

	if err := s.SetRemoteMigrated(); err != nil {
		return fmt.Errorf("persist migration flag: %w", err)
	}
	return nil
}
