package page

import (
	"math"
	"sort"

	"github.com/baekilha/baekilha/pkg/compare"
	"github.com/baekilha/baekilha/pkg/types"
)

// Weight keys match the compare package's metric ids, so one vocabulary
// covers comparison policy, weight configuration, and wire payloads.

// memberComponents maps each weightable member metric to its 0..100
// contribution. Penalty ratios are inverted so that a higher contribution is
// always better.
func memberComponents(stats types.MemberStats) map[string]float64 {
	return map[string]float64{
		string(compare.MetricAttendance):        stats.Attendance,
		string(compare.MetricBillPassRate):      stats.BillPassRate,
		string(compare.MetricPetitionProposed):  stats.PetitionsProposed,
		string(compare.MetricPetitionResult):    stats.PetitionResults,
		string(compare.MetricInvalidVotes):      (1 - stats.InvalidVoteRatio) * 100,
		string(compare.MetricVoteConsistency):   stats.VoteMatchRatio * 100,
		string(compare.MetricVoteInconsistency): (1 - stats.VoteMismatchRatio) * 100,
		string(compare.MetricCommitteeRank):     float64(stats.CommitteeRank) * 100 / 3,
	}
}

func partyComponents(stats types.PartyStats) map[string]float64 {
	return map[string]float64{
		string(compare.MetricPartyAttendance):     stats.AvgAttendance,
		string(compare.MetricPartyBillPassSum):    math.Min(float64(stats.BillPassSum), 100),
		string(compare.MetricPartyPetitionSum):    math.Min(float64(stats.PetitionSum), 100),
		string(compare.MetricPartyPetitionPass):   math.Min(float64(stats.PetitionPassSum), 100),
		string(compare.MetricPartyInvalidVotes):   (1 - stats.AvgInvalidVoteRatio) * 100,
		string(compare.MetricPartyConsistency):    stats.AvgVoteMatchRatio * 100,
		string(compare.MetricPartyInconsistency):  (1 - stats.AvgVoteMismatchRatio) * 100,
		string(compare.MetricPartyLeaderCount):    math.Min(float64(stats.CommitteeLeaderCount), 100),
		string(compare.MetricPartySecretaryCount): math.Min(float64(stats.CommitteeSecretaryCount), 100),
		string(compare.MetricPartyAvgScore):       stats.AvgTotalScore,
	}
}

// weightedScore folds components into one score: the weighted mean of the
// contributions, with unmentioned metrics weighted 1.0. An all-default weight
// map therefore reproduces the plain mean, and raising one weight pulls the
// score toward that metric.
func weightedScore(components map[string]float64, weights map[string]float64) float64 {
	keys := make([]string, 0, len(components))
	for k := range components {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum, totalWeight float64
	for _, k := range keys {
		w := 1.0
		if v, ok := weights[k]; ok {
			w = v
		}
		sum += components[k] * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

// RecalculateMembers produces the calculated-distribution payload for a
// weight change. Original scores ride along so receivers can render deltas
// and reset without refetching.
func RecalculateMembers(members []*types.Member, weights map[string]float64) []types.CalculatedEntry {
	entries := make([]types.CalculatedEntry, 0, len(members))
	for _, m := range members {
		calc := weightedScore(memberComponents(m.Stats), weights)
		entries = append(entries, types.CalculatedEntry{
			Name:            m.Name,
			Party:           m.Party,
			CalculatedScore: calc,
			OriginalScore:   m.Stats.TotalScore,
			ScoreChanged:    math.Abs(calc-m.Stats.TotalScore) > compare.Epsilon,
			WeightApplied:   len(weights) > 0,
		})
	}
	return entries
}

// RecalculateParties is the party counterpart of RecalculateMembers.
func RecalculateParties(parties []*types.Party, weights map[string]float64) []types.CalculatedEntry {
	entries := make([]types.CalculatedEntry, 0, len(parties))
	for _, p := range parties {
		calc := weightedScore(partyComponents(p.Stats), weights)
		entries = append(entries, types.CalculatedEntry{
			Name:            p.Name,
			CalculatedScore: calc,
			OriginalScore:   p.Stats.AvgTotalScore,
			ScoreChanged:    math.Abs(calc-p.Stats.AvgTotalScore) > compare.Epsilon,
			WeightApplied:   len(weights) > 0,
		})
	}
	return entries
}
