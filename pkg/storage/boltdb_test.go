package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMemberRoundTrip(t *testing.T) {
	store := newTestStore(t)

	member := &types.Member{
		ID:    "m-1",
		Name:  "김철수",
		Party: "더불어민주당",
		Stats: types.MemberStats{Attendance: 92.5, TotalScore: 81.2},
	}
	require.NoError(t, store.SaveMember(member))

	got, err := store.GetMemberByName("김철수")
	require.NoError(t, err)
	assert.Equal(t, member.Party, got.Party)
	assert.Equal(t, member.Stats.Attendance, got.Stats.Attendance)
}

func TestGetMemberNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetMemberByName("없는사람")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveMemberUpsert(t *testing.T) {
	store := newTestStore(t)

	member := &types.Member{Name: "김철수", Party: "A당"}
	require.NoError(t, store.SaveMember(member))

	member.Party = "B당"
	require.NoError(t, store.SaveMember(member))

	got, err := store.GetMemberByName("김철수")
	require.NoError(t, err)
	assert.Equal(t, "B당", got.Party)

	members, err := store.ListMembers()
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestReplaceMembers(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveMember(&types.Member{Name: "옛사람"}))

	fresh := []*types.Member{
		{Name: "김철수"},
		{Name: "이영희"},
	}
	require.NoError(t, store.ReplaceMembers(fresh))

	members, err := store.ListMembers()
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = store.GetMemberByName("옛사람")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPartyRoundTrip(t *testing.T) {
	store := newTestStore(t)

	party := &types.Party{
		Name:  "국민의힘",
		Stats: types.PartyStats{AvgAttendance: 88.1, Rank: 2},
	}
	require.NoError(t, store.SaveParty(party))

	got, err := store.GetPartyByName("국민의힘")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.Rank)

	require.NoError(t, store.ReplaceParties([]*types.Party{{Name: "정의당"}}))
	parties, err := store.ListParties()
	require.NoError(t, err)
	assert.Len(t, parties, 1)
	assert.Equal(t, "정의당", parties[0].Name)
}

func TestOriginalSnapshotPerKind(t *testing.T) {
	store := newTestStore(t)

	memberSnap := &types.Snapshot{
		Kind: types.KindMember,
		Mode: types.ModeOriginal,
		Entries: []types.RankEntry{
			{Rank: 1, Name: "김철수", Score: 91.0, Source: types.ScoreOriginal},
		},
		ReceivedAt: time.Now(),
	}
	partySnap := &types.Snapshot{
		Kind: types.KindParty,
		Mode: types.ModeOriginal,
		Entries: []types.RankEntry{
			{Rank: 1, Name: "국민의힘", Score: 80.0, Source: types.ScoreOriginal},
		},
	}
	require.NoError(t, store.SaveOriginalSnapshot(memberSnap))
	require.NoError(t, store.SaveOriginalSnapshot(partySnap))

	got, err := store.GetOriginalSnapshot(types.KindMember)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "김철수", got.Entries[0].Name)

	got, err = store.GetOriginalSnapshot(types.KindParty)
	require.NoError(t, err)
	assert.Equal(t, "국민의힘", got.Entries[0].Name)
}

func TestViewState(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetViewState("rank-members")
	assert.True(t, errors.Is(err, ErrNotFound))

	state := &types.ViewState{Query: "김", Filter: "더불어민주당", Sort: "score", Page: 3}
	require.NoError(t, store.SaveViewState("rank-members", state))

	got, err := store.GetViewState("rank-members")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestCursor(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCursor()
	assert.True(t, errors.Is(err, ErrNotFound))

	cursor := &Cursor{MessageType: "calculated_data_distribution", Timestamp: 1700000000123}
	require.NoError(t, store.SaveCursor(cursor))

	got, err := store.GetCursor()
	require.NoError(t, err)
	assert.Equal(t, cursor, got)
}
