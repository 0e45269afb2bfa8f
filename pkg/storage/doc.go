/*
Package storage provides the page-local persistent cache using BoltDB.

Each page process owns one bolt file under the data directory (bolt holds an
exclusive file lock, so the file name includes the page kind). The cache holds
the fused entities from the last successful load, the cached original snapshot
per entity kind, per-page view state, and the sync cursor the reconciliation
loop compares against the persistent transport.

# Architecture

	┌───────────────── LOCAL CACHE (per page) ─────────────────┐
	│                                                          │
	│  Store interface ──► BoltStore (bbolt, one file)         │
	│                                                          │
	│  Buckets:                                                │
	│    members     name → fused Member (JSON)                │
	│    parties     name → fused Party (JSON)                 │
	│    snapshots   kind → original Snapshot (JSON)           │
	│    view_state  page → ViewState (JSON)                   │
	│    sync        "cursor" → Cursor (JSON)                  │
	└──────────────────────────────────────────────────────────┘

Entities are keyed by display name because name is the join key everywhere
else in the system. Writes are upserts; ReplaceMembers/ReplaceParties swap a
whole bucket inside one transaction so a crashed reload never leaves a
half-written roster.

# Usage

	store, err := storage.NewBoltStore(dataDir, "rank-members")
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ReplaceMembers(members); err != nil {
		return err
	}
	cached, err := store.GetOriginalSnapshot(types.KindMember)
	if errors.Is(err, storage.ErrNotFound) {
		// first run, nothing cached yet
	}

# Integration Points

  - pkg/fusion: persists fused rosters after each load
  - pkg/snapshot: caches the original snapshot for offline reset
  - pkg/channel: reads/writes the sync cursor during reconciliation
  - pkg/page: persists view state across restarts
*/
package storage
