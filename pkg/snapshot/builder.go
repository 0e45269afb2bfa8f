package snapshot

import (
	"sort"
	"time"

	"github.com/baekilha/baekilha/pkg/types"
)

// BuildMemberSnapshot ranks fused members by total score, descending, with
// ranks contiguous from 1. Degraded loads are marked with the fallback score
// source.
func BuildMemberSnapshot(members []*types.Member, degraded bool) *types.Snapshot {
	source := types.ScoreOriginal
	if degraded {
		source = types.ScoreFallback
	}

	entries := make([]types.RankEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, types.RankEntry{
			Name:          m.Name,
			Party:         m.Party,
			Score:         m.Stats.TotalScore,
			OriginalScore: m.Stats.TotalScore,
			Source:        source,
		})
	}
	rankEntries(entries)

	return &types.Snapshot{
		Kind:       types.KindMember,
		Mode:       types.ModeOriginal,
		Entries:    entries,
		ReceivedAt: time.Now(),
	}
}

// BuildPartySnapshot ranks fused parties by average total score, descending.
func BuildPartySnapshot(parties []*types.Party, degraded bool) *types.Snapshot {
	source := types.ScoreOriginal
	if degraded {
		source = types.ScoreFallback
	}

	entries := make([]types.RankEntry, 0, len(parties))
	for _, p := range parties {
		entries = append(entries, types.RankEntry{
			Name:          p.Name,
			Score:         p.Stats.AvgTotalScore,
			OriginalScore: p.Stats.AvgTotalScore,
			Source:        source,
		})
	}
	rankEntries(entries)

	return &types.Snapshot{
		Kind:       types.KindParty,
		Mode:       types.ModeOriginal,
		Entries:    entries,
		ReceivedAt: time.Now(),
	}
}

// rankEntries sorts by score descending (name ascending on equal scores, so
// ordering is deterministic) and assigns contiguous ranks from 1.
func rankEntries(entries []types.RankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
