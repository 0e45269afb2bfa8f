package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/baekilha/baekilha/pkg/storage"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/rs/zerolog"
)

// ErrEmptyCalculated rejects a calculated distribution with no entries: an
// empty payload must never blank out the current ranking.
var ErrEmptyCalculated = errors.New("calculated distribution has no entries")

// ErrLoadInProgress is returned when Reload is called while another reload
// is still running.
var ErrLoadInProgress = errors.New("reload already in progress")

// Source produces a fresh original snapshot from the feeds.
type Source interface {
	Load(ctx context.Context) (*types.Snapshot, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*types.Snapshot, error)

func (f SourceFunc) Load(ctx context.Context) (*types.Snapshot, error) { return f(ctx) }

// Manager owns the authoritative ranking snapshot of one page. All
// transitions swap the whole snapshot atomically under one lock; readers get
// clones and never observe a half-applied state.
type Manager struct {
	kind   types.EntityKind
	source Source
	store  storage.Store
	logger zerolog.Logger

	mu       sync.Mutex
	current  *types.Snapshot
	original *types.Snapshot
	loading  bool
}

// NewManager creates a snapshot manager. store may be nil (no offline cache).
func NewManager(kind types.EntityKind, source Source, store storage.Store) *Manager {
	return &Manager{
		kind:   kind,
		source: source,
		store:  store,
		logger: log.WithComponent("snapshot"),
	}
}

// Current returns a clone of the active snapshot, or nil before first load.
func (m *Manager) Current() *types.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Mode returns the active data mode. Pages answering a connection_check
// report this value.
func (m *Manager) Mode() types.DataMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return types.ModeOriginal
	}
	return m.current.Mode
}

// Reload fetches a fresh original snapshot from the source and makes it
// current. Reentrant calls while a load is running return ErrLoadInProgress
// instead of stacking loads.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		m.logger.Debug().Msg("reload skipped, load in progress")
		return ErrLoadInProgress
	}
	m.loading = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	snap, err := m.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	m.mu.Lock()
	m.current = snap
	m.original = snap.Clone()
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.SaveOriginalSnapshot(snap); err != nil {
			m.logger.Warn().Err(err).Msg("failed to cache original snapshot")
		}
	}

	metrics.SnapshotTransitions.WithLabelValues(string(types.ModeOriginal)).Inc()
	m.logger.Info().
		Str("kind", string(m.kind)).
		Int("entries", len(snap.Entries)).
		Msg("original snapshot loaded")
	return nil
}

// ApplyCachedOriginal installs a snapshot restored from the local cache as
// both the current and the original state. Pages use it when the feeds are
// unreachable at startup.
func (m *Manager) ApplyCachedOriginal(snap *types.Snapshot) error {
	if snap == nil || len(snap.Entries) == 0 {
		return fmt.Errorf("cached snapshot is empty")
	}

	restored := snap.Clone()
	restored.Mode = types.ModeOriginal
	restored.ReceivedAt = time.Now()

	m.mu.Lock()
	m.original = restored.Clone()
	m.current = restored
	m.mu.Unlock()

	metrics.SnapshotTransitions.WithLabelValues(string(types.ModeOriginal)).Inc()
	m.logger.Info().
		Str("kind", string(m.kind)).
		Int("entries", len(restored.Entries)).
		Msg("restored snapshot from local cache")
	return nil
}

// ApplyCalculated swaps in a recalculated ranking received from another page.
// Entries are re-ranked by calculated score; the original snapshot stays
// cached for reset. Rapid successive applies serialize under the lock:
// last writer wins.
func (m *Manager) ApplyCalculated(entries []types.CalculatedEntry, weights map[string]float64) error {
	if len(entries) == 0 {
		return ErrEmptyCalculated
	}

	ranked := make([]types.RankEntry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		ranked = append(ranked, types.RankEntry{
			Name:          e.Name,
			Party:         e.Party,
			Score:         e.CalculatedScore,
			OriginalScore: e.OriginalScore,
			Source:        types.ScoreCalculated,
			WeightApplied: e.WeightApplied,
		})
	}
	if len(ranked) == 0 {
		return ErrEmptyCalculated
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	snap := &types.Snapshot{
		Kind:       m.kind,
		Mode:       types.ModeCalculated,
		Entries:    ranked,
		Weights:    weights,
		ReceivedAt: time.Now(),
	}

	m.mu.Lock()
	m.current = snap
	m.mu.Unlock()

	metrics.SnapshotTransitions.WithLabelValues(string(types.ModeCalculated)).Inc()
	m.logger.Info().
		Str("kind", string(m.kind)).
		Int("entries", len(ranked)).
		Msg("calculated snapshot applied")
	return nil
}

// ResetToOriginal restores the original snapshot: from memory if this process
// loaded one, from the local cache otherwise, and from the feeds as a last
// resort. Already being in original mode is a no-op.
func (m *Manager) ResetToOriginal(ctx context.Context) error {
	m.mu.Lock()
	if m.current != nil && m.current.Mode == types.ModeOriginal {
		m.mu.Unlock()
		return nil
	}
	if m.original != nil {
		// The clone keeps the original's load time: apply-then-reset
		// restores the snapshot exactly as it was.
		m.current = m.original.Clone()
		m.mu.Unlock()
		metrics.SnapshotTransitions.WithLabelValues(string(types.ModeOriginal)).Inc()
		m.logger.Info().Str("kind", string(m.kind)).Msg("reset to cached original")
		return nil
	}
	m.mu.Unlock()

	if m.store != nil {
		if cached, err := m.store.GetOriginalSnapshot(m.kind); err == nil {
			m.mu.Lock()
			m.original = cached.Clone()
			m.current = cached
			m.mu.Unlock()
			metrics.SnapshotTransitions.WithLabelValues(string(types.ModeOriginal)).Inc()
			m.logger.Info().Str("kind", string(m.kind)).Msg("reset from local cache")
			return nil
		}
	}

	return m.Reload(ctx)
}
