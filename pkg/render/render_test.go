package render

import (
	"strings"
	"testing"

	"github.com/baekilha/baekilha/pkg/compare"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Kind: types.KindMember,
		Mode: types.ModeOriginal,
		Entries: []types.RankEntry{
			{Rank: 1, Name: "김철수", Party: "A당", Score: 92},
			{Rank: 2, Name: "이영희", Party: "B당", Score: 88},
			{Rank: 3, Name: "김민준", Party: "A당", Score: 84},
			{Rank: 4, Name: "박지훈", Party: "C당", Score: 80},
			{Rank: 5, Name: "최수빈", Party: "B당", Score: 76},
		},
	}
}

func TestApplyViewSearch(t *testing.T) {
	view := ApplyView(testSnapshot(), types.ViewState{Query: "김"}, 10)

	require.Len(t, view.Entries, 2)
	assert.Equal(t, "김철수", view.Entries[0].Name)
	assert.Equal(t, "김민준", view.Entries[1].Name)
	assert.Equal(t, 2, view.Total)
}

func TestApplyViewPartyFilter(t *testing.T) {
	view := ApplyView(testSnapshot(), types.ViewState{Filter: "B당"}, 10)

	require.Len(t, view.Entries, 2)
	for _, e := range view.Entries {
		assert.Equal(t, "B당", e.Party)
	}
}

func TestApplyViewSortByName(t *testing.T) {
	view := ApplyView(testSnapshot(), types.ViewState{Sort: "name"}, 10)

	names := make([]string, 0, len(view.Entries))
	for _, e := range view.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"김민준", "김철수", "박지훈", "이영희", "최수빈"}, names)
}

func TestApplyViewPagination(t *testing.T) {
	view := ApplyView(testSnapshot(), types.ViewState{Page: 2}, 2)

	require.Len(t, view.Entries, 2)
	assert.Equal(t, "김민준", view.Entries[0].Name)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 3, view.TotalPages)
}

func TestApplyViewPageClamped(t *testing.T) {
	view := ApplyView(testSnapshot(), types.ViewState{Page: 99}, 2)
	assert.Equal(t, 3, view.Page)

	view = ApplyView(testSnapshot(), types.ViewState{Page: -1}, 2)
	assert.Equal(t, 1, view.Page)
}

func TestApplyViewNilSnapshot(t *testing.T) {
	view := ApplyView(nil, types.ViewState{}, 10)
	assert.Empty(t, view.Entries)
	assert.Equal(t, 1, view.TotalPages)
}

func TestApplyViewEmptyAfterFilter(t *testing.T) {
	view := ApplyView(testSnapshot(), types.ViewState{Query: "없는이름"}, 10)
	assert.Empty(t, view.Entries)
	assert.Equal(t, 0, view.Total)
	assert.Equal(t, 1, view.TotalPages)
}

func TestRankingRendersEntriesAndMode(t *testing.T) {
	out := Ranking("의원 랭킹", testSnapshot(), types.ViewState{}, 10)

	assert.Contains(t, out, "김철수")
	assert.Contains(t, out, "원본 랭킹")
	assert.Contains(t, out, "전체 5명")
}

func TestRankingCalculatedShowsWeightsAndOriginalScore(t *testing.T) {
	snap := &types.Snapshot{
		Kind: types.KindMember,
		Mode: types.ModeCalculated,
		Entries: []types.RankEntry{
			{Rank: 1, Name: "김철수", Party: "A당", Score: 95, OriginalScore: 90, Source: types.ScoreCalculated},
		},
		Weights: map[string]float64{"attendance": 1.5},
	}

	out := Ranking("의원 랭킹", snap, types.ViewState{}, 10)
	assert.Contains(t, out, "가중치 적용 랭킹")
	assert.Contains(t, out, "attendance×1.50")
	assert.Contains(t, out, "원본 90.00")
}

func TestRankingNilSnapshot(t *testing.T) {
	out := Ranking("의원 랭킹", nil, types.ViewState{}, 10)
	assert.Contains(t, out, "데이터 없음")
}

func TestComparisonRendersBothSides(t *testing.T) {
	results := []compare.Result{
		{Metric: compare.MetricAttendance, First: 95, Second: 85, Verdict: compare.VerdictFirst},
		{Metric: compare.MetricInvalidVotes, First: 0.02, Second: 0.02, Verdict: compare.VerdictTie},
	}

	out := Comparison("김철수", "이영희", results)
	assert.Contains(t, out, "김철수")
	assert.Contains(t, out, "이영희")
	assert.Contains(t, out, "출석률")
	// Side A wins one metric, side B none
	assert.True(t, strings.Contains(out, "우세 1개 항목"))
	assert.True(t, strings.Contains(out, "우세 0개 항목"))
}
