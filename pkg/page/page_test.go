package page

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baekilha/baekilha/pkg/channel"
	"github.com/baekilha/baekilha/pkg/config"
	"github.com/baekilha/baekilha/pkg/fusion"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPage builds a page whose feeds always fail, so loads serve the
// built-in default dataset. Multicast is disabled for determinism.
func newTestPage(t *testing.T, kind types.EntityKind) (*Page, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.API.BaseURL = srv.URL
	cfg.API.MaxRetries = 1
	cfg.API.Timeout = time.Second
	cfg.Channel.MulticastGroup = ""
	cfg.Channel.ReconcileInterval = 0

	p, err := New(cfg, kind)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	var out bytes.Buffer
	p.Out = &out
	p.channel.Start()
	return p, &out
}

func TestWeightedScoreDefaultsToMean(t *testing.T) {
	components := map[string]float64{"a": 80, "b": 60, "c": 100}
	assert.InDelta(t, 80.0, weightedScore(components, nil), 1e-9)
}

func TestWeightedScorePullsTowardWeightedMetric(t *testing.T) {
	components := map[string]float64{"high": 100, "low": 0}
	base := weightedScore(components, nil)
	boosted := weightedScore(components, map[string]float64{"high": 3})
	assert.Greater(t, boosted, base)

	suppressed := weightedScore(components, map[string]float64{"high": 0.1})
	assert.Less(t, suppressed, base)
}

func TestRecalculateMembersFlagsChangedScores(t *testing.T) {
	members := fusion.DefaultMembers()
	entries := RecalculateMembers(members, map[string]float64{"attendance": 5})

	require.Len(t, entries, len(members))
	for _, e := range entries {
		assert.True(t, e.WeightApplied)
		assert.Equal(t, e.ScoreChanged, math.Abs(e.CalculatedScore-e.OriginalScore) > 0.01)
	}
}

func TestRecalculateMembersNoWeightsNotApplied(t *testing.T) {
	entries := RecalculateMembers(fusion.DefaultMembers(), nil)
	for _, e := range entries {
		assert.False(t, e.WeightApplied)
	}
}

func TestApplyWeightsSwitchesToCalculatedMode(t *testing.T) {
	p, out := newTestPage(t, types.KindMember)

	require.NoError(t, p.ApplyWeights(context.Background(), map[string]float64{"attendance": 2}))

	assert.Equal(t, types.ModeCalculated, p.manager.Mode())
	assert.Contains(t, out.String(), "가중치 적용 랭킹")

	// The distribution reaches the persistent transport for sibling pages.
	fs, err := channel.NewFileStore(p.cfg.DataDir)
	require.NoError(t, err)
	defer fs.Close()
	stored, err := fs.Get()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.Entries)
	assert.Equal(t, types.KindMember, stored.Kind)
}

func TestResetWeightsRestoresOriginalMode(t *testing.T) {
	p, out := newTestPage(t, types.KindMember)

	require.NoError(t, p.ApplyWeights(context.Background(), map[string]float64{"attendance": 2}))
	require.NoError(t, p.ResetWeights(context.Background()))

	assert.Equal(t, types.ModeOriginal, p.manager.Mode())
	assert.Contains(t, out.String(), "원본 랭킹")
}

func TestCompareMembersFromDefaultDataset(t *testing.T) {
	p, _ := newTestPage(t, types.KindMember)

	out, err := p.CompareMembers(context.Background(), "이재명", "한동훈")
	require.NoError(t, err)
	assert.Contains(t, out, "이재명")
	assert.Contains(t, out, "한동훈")
	assert.Contains(t, out, "출석률")
}

func TestCompareMembersUnknownName(t *testing.T) {
	p, _ := newTestPage(t, types.KindMember)

	_, err := p.CompareMembers(context.Background(), "이재명", "존재하지않는의원")
	assert.Error(t, err)
}

func TestCompareParties(t *testing.T) {
	p, _ := newTestPage(t, types.KindParty)

	out, err := p.CompareParties(context.Background(), "더불어민주당", "국민의힘")
	require.NoError(t, err)
	assert.Contains(t, out, "더불어민주당")
	assert.Contains(t, out, "평균 출석률")
}

func TestSetViewPersistsAcrossRestart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.API.BaseURL = srv.URL
	cfg.API.MaxRetries = 1
	cfg.Channel.MulticastGroup = ""
	cfg.Channel.ReconcileInterval = 0

	p, err := New(cfg, types.KindMember)
	require.NoError(t, err)
	p.Out = &bytes.Buffer{}
	p.SetView(types.ViewState{Filter: "국민의힘", Page: 2})
	p.Close()

	reopened, err := New(cfg, types.KindMember)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "국민의힘", reopened.view.Filter)
	assert.Equal(t, 2, reopened.view.Page)
}

func TestHandleMessageAppliesCalculatedDistribution(t *testing.T) {
	p, out := newTestPage(t, types.KindMember)
	require.NoError(t, p.ensureLoaded(context.Background()))

	msg := channel.NewMessage(channel.TypeCalculatedData, "other-page")
	msg.Kind = types.KindMember
	msg.Entries = []types.CalculatedEntry{
		{Name: "이재명", CalculatedScore: 91, OriginalScore: 75, ScoreChanged: true, WeightApplied: true},
	}
	p.handleMessage(context.Background(), msg)

	assert.Equal(t, types.ModeCalculated, p.manager.Mode())
	assert.Contains(t, out.String(), "가중치 적용 랭킹")
}

func TestHandleMessageRejectsEmptyDistribution(t *testing.T) {
	p, out := newTestPage(t, types.KindMember)
	require.NoError(t, p.ensureLoaded(context.Background()))

	msg := channel.NewMessage(channel.TypeCalculatedData, "other-page")
	msg.Kind = types.KindMember
	p.handleMessage(context.Background(), msg)

	assert.Equal(t, types.ModeOriginal, p.manager.Mode())
	assert.Contains(t, out.String(), "현재 랭킹을 유지합니다")
}

func TestHandleMessageIgnoresOtherKind(t *testing.T) {
	p, _ := newTestPage(t, types.KindMember)
	require.NoError(t, p.ensureLoaded(context.Background()))

	msg := channel.NewMessage(channel.TypeCalculatedData, "other-page")
	msg.Kind = types.KindParty
	msg.Entries = []types.CalculatedEntry{{Name: "더불어민주당", CalculatedScore: 90}}
	p.handleMessage(context.Background(), msg)

	assert.Equal(t, types.ModeOriginal, p.manager.Mode())
}

func TestHandleMessageResetRestoresOriginal(t *testing.T) {
	p, _ := newTestPage(t, types.KindMember)
	require.NoError(t, p.ApplyWeights(context.Background(), map[string]float64{"attendance": 2}))

	p.handleMessage(context.Background(), channel.NewMessage(channel.TypeResetToOriginal, "other-page"))

	assert.Equal(t, types.ModeOriginal, p.manager.Mode())
}

func TestDegradedLoadRendersNotice(t *testing.T) {
	p, out := newTestPage(t, types.KindMember)

	require.NoError(t, p.ensureLoaded(context.Background()))
	p.render()

	assert.Contains(t, out.String(), "기본 데이터")
}
