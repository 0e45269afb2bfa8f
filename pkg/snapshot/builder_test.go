package snapshot

import (
	"testing"

	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMemberSnapshotRanksContiguously(t *testing.T) {
	members := []*types.Member{
		{Name: "이영희", Party: "B당", Stats: types.MemberStats{TotalScore: 70}},
		{Name: "김철수", Party: "A당", Stats: types.MemberStats{TotalScore: 90}},
		{Name: "박민수", Party: "C당", Stats: types.MemberStats{TotalScore: 80}},
	}

	snap := BuildMemberSnapshot(members, false)

	require.Len(t, snap.Entries, 3)
	assert.Equal(t, types.KindMember, snap.Kind)
	assert.Equal(t, types.ModeOriginal, snap.Mode)

	for i, want := range []string{"김철수", "박민수", "이영희"} {
		assert.Equal(t, want, snap.Entries[i].Name)
		assert.Equal(t, i+1, snap.Entries[i].Rank)
		assert.Equal(t, types.ScoreOriginal, snap.Entries[i].Source)
	}
}

func TestBuildMemberSnapshotEqualScoresDeterministic(t *testing.T) {
	members := []*types.Member{
		{Name: "나", Stats: types.MemberStats{TotalScore: 75}},
		{Name: "가", Stats: types.MemberStats{TotalScore: 75}},
	}

	snap := BuildMemberSnapshot(members, false)
	assert.Equal(t, "가", snap.Entries[0].Name)
	assert.Equal(t, "나", snap.Entries[1].Name)
}

func TestBuildMemberSnapshotDegraded(t *testing.T) {
	snap := BuildMemberSnapshot([]*types.Member{
		{Name: "김철수", Stats: types.MemberStats{TotalScore: 75}},
	}, true)

	assert.Equal(t, types.ScoreFallback, snap.Entries[0].Source)
}

func TestBuildPartySnapshot(t *testing.T) {
	parties := []*types.Party{
		{Name: "B당", Stats: types.PartyStats{AvgTotalScore: 72}},
		{Name: "A당", Stats: types.PartyStats{AvgTotalScore: 81}},
	}

	snap := BuildPartySnapshot(parties, false)

	require.Len(t, snap.Entries, 2)
	assert.Equal(t, types.KindParty, snap.Kind)
	assert.Equal(t, "A당", snap.Entries[0].Name)
	assert.Equal(t, 1, snap.Entries[0].Rank)
	assert.Equal(t, 2, snap.Entries[1].Rank)
}
