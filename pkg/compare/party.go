package compare

import (
	"fmt"

	"github.com/baekilha/baekilha/pkg/types"
)

// Party metrics.
const (
	MetricPartyAttendance     Metric = "party_attendance"
	MetricPartyBillPassSum    Metric = "party_bill_pass_sum"
	MetricPartyPetitionSum    Metric = "party_petition_sum"
	MetricPartyPetitionPass   Metric = "party_petition_pass_sum"
	MetricPartyInvalidVotes   Metric = "party_invalid_votes"
	MetricPartyConsistency    Metric = "party_vote_consistency"
	MetricPartyInconsistency  Metric = "party_vote_inconsistency"
	MetricPartyLeaderCount    Metric = "party_leader_count"
	MetricPartySecretaryCount Metric = "party_secretary_count"
	MetricPartyAvgScore       Metric = "party_avg_score"
)

var partyPolicy = map[Metric]Direction{
	MetricPartyAttendance:     HigherIsBetter,
	MetricPartyBillPassSum:    HigherIsBetter,
	MetricPartyPetitionSum:    HigherIsBetter,
	MetricPartyPetitionPass:   HigherIsBetter,
	MetricPartyInvalidVotes:   LowerIsBetter,
	MetricPartyConsistency:    HigherIsBetter,
	MetricPartyInconsistency:  LowerIsBetter,
	MetricPartyLeaderCount:    HigherIsBetter,
	MetricPartySecretaryCount: HigherIsBetter,
	MetricPartyAvgScore:       HigherIsBetter,
}

// PartyMetrics lists all party metrics in display order.
var PartyMetrics = []Metric{
	MetricPartyAttendance,
	MetricPartyBillPassSum,
	MetricPartyPetitionSum,
	MetricPartyPetitionPass,
	MetricPartyInvalidVotes,
	MetricPartyConsistency,
	MetricPartyInconsistency,
	MetricPartyLeaderCount,
	MetricPartySecretaryCount,
	MetricPartyAvgScore,
}

func partyMetricValue(stats types.PartyStats, metric Metric) (float64, bool) {
	switch metric {
	case MetricPartyAttendance:
		return stats.AvgAttendance, true
	case MetricPartyBillPassSum:
		return float64(stats.BillPassSum), true
	case MetricPartyPetitionSum:
		return float64(stats.PetitionSum), true
	case MetricPartyPetitionPass:
		return float64(stats.PetitionPassSum), true
	case MetricPartyInvalidVotes:
		return stats.AvgInvalidVoteRatio, true
	case MetricPartyConsistency:
		return stats.AvgVoteMatchRatio, true
	case MetricPartyInconsistency:
		return stats.AvgVoteMismatchRatio, true
	case MetricPartyLeaderCount:
		return float64(stats.CommitteeLeaderCount), true
	case MetricPartySecretaryCount:
		return float64(stats.CommitteeSecretaryCount), true
	case MetricPartyAvgScore:
		return stats.AvgTotalScore, true
	default:
		return 0, false
	}
}

// Parties compares one metric between two parties.
func Parties(a, b *types.Party, metric Metric) (Result, error) {
	dir, ok := partyPolicy[metric]
	if !ok {
		return Result{}, fmt.Errorf("unknown metric: %s", metric)
	}
	av, _ := partyMetricValue(a.Stats, metric)
	bv, _ := partyMetricValue(b.Stats, metric)
	return Result{
		Metric:    metric,
		First:     av,
		Second:    bv,
		Direction: dir,
		Verdict:   Values(av, bv, dir),
	}, nil
}

// PartiesAll compares every party metric in display order.
func PartiesAll(a, b *types.Party) []Result {
	results := make([]Result, 0, len(PartyMetrics))
	for _, metric := range PartyMetrics {
		r, err := Parties(a, b, metric)
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	return results
}
