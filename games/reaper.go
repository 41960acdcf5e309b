/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"time"
)

// Reap deletes every room that no connection is bound to. Disconnect
// normally cleans up after the last player; this catches the rooms whose
// players vanished without a clean close. It returns how many rooms it
// removed.
func (m *Manager) Reap() int {
	reaped := 0

	for _, id := range m.store.IDs() {
		room, ok := m.store.Get(id)
		if !ok {
			continue
		}

		room.Lock()
		if !room.deleted && m.registry.Count(room.ID) == 0 {
			m.deleteLocked(room)
			reaped++
			m.logf("GAMES: Reaped idle room %s", room.ID)
		}
		room.Unlock()
	}

	return reaped
}

// RunReaper calls Reap every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}
