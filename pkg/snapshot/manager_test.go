package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/baekilha/baekilha/pkg/storage"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(entries ...types.RankEntry) Source {
	return SourceFunc(func(ctx context.Context) (*types.Snapshot, error) {
		snap := &types.Snapshot{
			Kind:       types.KindMember,
			Mode:       types.ModeOriginal,
			Entries:    append([]types.RankEntry(nil), entries...),
			ReceivedAt: time.Now(),
		}
		return snap, nil
	})
}

func originalEntries() []types.RankEntry {
	return []types.RankEntry{
		{Rank: 1, Name: "김철수", Score: 90, OriginalScore: 90, Source: types.ScoreOriginal},
		{Rank: 2, Name: "이영희", Score: 80, OriginalScore: 80, Source: types.ScoreOriginal},
	}
}

func TestReloadMakesOriginalCurrent(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)

	assert.Nil(t, m.Current())
	assert.Equal(t, types.ModeOriginal, m.Mode())

	require.NoError(t, m.Reload(context.Background()))

	snap := m.Current()
	require.NotNil(t, snap)
	assert.Equal(t, types.ModeOriginal, snap.Mode)
	assert.Len(t, snap.Entries, 2)
}

func TestReloadSourceFailure(t *testing.T) {
	src := SourceFunc(func(ctx context.Context) (*types.Snapshot, error) {
		return nil, errors.New("feeds down")
	})
	m := NewManager(types.KindMember, src, nil)

	err := m.Reload(context.Background())
	assert.Error(t, err)
	assert.Nil(t, m.Current())
}

func TestReloadReentrancyGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	src := SourceFunc(func(ctx context.Context) (*types.Snapshot, error) {
		close(started)
		<-release
		return &types.Snapshot{Kind: types.KindMember, Mode: types.ModeOriginal}, nil
	})
	m := NewManager(types.KindMember, src, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Reload(context.Background())
	}()

	<-started
	err := m.Reload(context.Background())
	assert.True(t, errors.Is(err, ErrLoadInProgress))

	close(release)
	wg.Wait()
}

func TestApplyCalculated(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))

	err := m.ApplyCalculated([]types.CalculatedEntry{
		{Name: "이영희", CalculatedScore: 95, OriginalScore: 80, ScoreChanged: true, WeightApplied: true},
		{Name: "김철수", CalculatedScore: 85, OriginalScore: 90, ScoreChanged: true, WeightApplied: true},
	}, map[string]float64{"attendance": 2.0})
	require.NoError(t, err)

	snap := m.Current()
	assert.Equal(t, types.ModeCalculated, snap.Mode)
	// Re-ranked by calculated score
	assert.Equal(t, "이영희", snap.Entries[0].Name)
	assert.Equal(t, 1, snap.Entries[0].Rank)
	assert.Equal(t, "김철수", snap.Entries[1].Name)
	assert.Equal(t, 2, snap.Entries[1].Rank)
	assert.Equal(t, types.ScoreCalculated, snap.Entries[0].Source)
	assert.Equal(t, 80.0, snap.Entries[0].OriginalScore)
	assert.Equal(t, 2.0, snap.Weights["attendance"])
}

func TestApplyCalculatedRejectsEmpty(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))

	err := m.ApplyCalculated(nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyCalculated))

	// Entries with no names are as good as empty
	err = m.ApplyCalculated([]types.CalculatedEntry{{CalculatedScore: 10}}, nil)
	assert.True(t, errors.Is(err, ErrEmptyCalculated))

	// The current snapshot must be untouched
	snap := m.Current()
	assert.Equal(t, types.ModeOriginal, snap.Mode)
	assert.Len(t, snap.Entries, 2)
}

func TestResetToOriginalFromMemory(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))
	require.NoError(t, m.ApplyCalculated([]types.CalculatedEntry{
		{Name: "이영희", CalculatedScore: 95},
	}, nil))
	require.Equal(t, types.ModeCalculated, m.Mode())

	require.NoError(t, m.ResetToOriginal(context.Background()))

	snap := m.Current()
	assert.Equal(t, types.ModeOriginal, snap.Mode)
	assert.Len(t, snap.Entries, 2)
	assert.Equal(t, "김철수", snap.Entries[0].Name)
}

func TestApplyThenResetRoundTripsExactSnapshot(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))
	before := m.Current()

	require.NoError(t, m.ApplyCalculated([]types.CalculatedEntry{
		{Name: "이영희", CalculatedScore: 95},
	}, nil))
	require.NoError(t, m.ResetToOriginal(context.Background()))

	// Whole-value equality, load time included
	assert.Equal(t, before, m.Current())
}

func TestResetToOriginalNoOpWhenOriginal(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))

	before := m.Current()
	require.NoError(t, m.ResetToOriginal(context.Background()))
	after := m.Current()
	assert.Equal(t, before.Entries, after.Entries)
}

func TestResetToOriginalFromLocalCache(t *testing.T) {
	store, err := storage.NewBoltStore(t.TempDir(), "test")
	require.NoError(t, err)
	defer store.Close()

	cached := &types.Snapshot{
		Kind:    types.KindMember,
		Mode:    types.ModeOriginal,
		Entries: originalEntries(),
	}
	require.NoError(t, store.SaveOriginalSnapshot(cached))

	// Fresh manager that never loaded: reset must come from the cache,
	// not the feeds.
	src := SourceFunc(func(ctx context.Context) (*types.Snapshot, error) {
		t.Fatal("source should not be called when cache has the original")
		return nil, nil
	})
	m := NewManager(types.KindMember, src, store)
	require.NoError(t, m.ApplyCalculated([]types.CalculatedEntry{
		{Name: "이영희", CalculatedScore: 95},
	}, nil))

	require.NoError(t, m.ResetToOriginal(context.Background()))
	snap := m.Current()
	assert.Equal(t, types.ModeOriginal, snap.Mode)
	assert.Len(t, snap.Entries, 2)
}

func TestRapidAppliesLastWriterWins(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))

	for i := 1; i <= 5; i++ {
		require.NoError(t, m.ApplyCalculated([]types.CalculatedEntry{
			{Name: "김철수", CalculatedScore: float64(i)},
		}, nil))
	}

	snap := m.Current()
	assert.Equal(t, 5.0, snap.Entries[0].Score)
}

func TestCurrentReturnsClone(t *testing.T) {
	m := NewManager(types.KindMember, testSource(originalEntries()...), nil)
	require.NoError(t, m.Reload(context.Background()))

	snap := m.Current()
	snap.Entries[0].Name = "변조"

	assert.Equal(t, "김철수", m.Current().Entries[0].Name)
}
