package fusion

import (
	"math"
	"strings"

	"github.com/baekilha/baekilha/pkg/types"
)

// Stat defaults, substituted whenever the owning feed is absent. These are
// deliberate mid-range values so a missing feed degrades comparisons instead
// of skewing them to zero.
const (
	DefaultAttendance        = 85.0
	DefaultBillsProposed     = 30
	DefaultBillPassRate      = 35.0
	DefaultInvalidVoteRatio  = 0.02
	DefaultVoteMatchRatio    = 0.85
	DefaultVoteMismatchRatio = 0.15
	DefaultTotalScore        = 75.0
	DefaultOverallRank       = 999

	// UnaffiliatedParty is the fallback party label.
	UnaffiliatedParty = "무소속"

	// NoCommitteeInfo marks a member with no committee feed record.
	NoCommitteeInfo = "정보없음"
)

// Party-level defaults.
const (
	DefaultPartyAvgAttendance   = 85.0
	DefaultPartyBillPassSum     = 50
	DefaultPartyPetitionSum     = 20
	DefaultPartyPetitionPassSum = 10
	DefaultPartyLeaderCount     = 1
	DefaultPartySecretaryCount  = 2
	DefaultPartyAvgTotalScore   = 75.0
)

// committeePositionRank maps a committee position to its comparison rank:
// chairs outrank secretaries outrank everyone else. Titles are matched by
// substring because the feed decorates them ("상임위원장", "예결위 간사").
func committeePositionRank(position string) int {
	switch {
	case strings.Contains(position, "위원장"):
		return 3
	case strings.Contains(position, "간사"):
		return 2
	default:
		return 1
	}
}

// committeeInfo normalizes a member's committee seats. The first seat in feed
// order is the primary one; the full list is retained for detail views.
func committeeInfo(memberships []types.CommitteeMembership) (string, int, []types.CommitteeSeat) {
	if len(memberships) == 0 {
		return NoCommitteeInfo, 1, nil
	}

	seats := make([]types.CommitteeSeat, 0, len(memberships))
	for _, m := range memberships {
		seats = append(seats, types.CommitteeSeat{
			Committee: m.Committee,
			Position:  m.Position,
			Rank:      committeePositionRank(m.Position),
		})
	}

	primary := seats[0]
	label := primary.Committee
	if primary.Position != "" {
		label = primary.Committee + " " + primary.Position
	}
	return label, primary.Rank, seats
}

// computeMemberStats derives the always-populated stats block from whichever
// feed references are present.
func computeMemberStats(refs types.MemberRefs) types.MemberStats {
	stats := types.MemberStats{
		Attendance:        DefaultAttendance,
		BillsProposed:     DefaultBillsProposed,
		BillPassRate:      DefaultBillPassRate,
		PetitionsProposed: 0,
		PetitionResults:   0,
		InvalidVoteRatio:  DefaultInvalidVoteRatio,
		VoteMatchRatio:    DefaultVoteMatchRatio,
		VoteMismatchRatio: DefaultVoteMismatchRatio,
		OverallRank:       DefaultOverallRank,
		TotalScore:        DefaultTotalScore,
	}

	if perf := refs.Performance; perf != nil {
		if perf.AttendanceScore > 0 {
			stats.Attendance = perf.AttendanceScore
		}
		stats.PetitionsProposed = perf.PetitionScore
		stats.PetitionResults = perf.PetitionResultScore
		if perf.InvalidVoteRatio > 0 {
			stats.InvalidVoteRatio = perf.InvalidVoteRatio
		}
		if perf.VoteMatchRatio > 0 {
			stats.VoteMatchRatio = perf.VoteMatchRatio
		}
		if perf.VoteMismatchRatio > 0 {
			stats.VoteMismatchRatio = perf.VoteMismatchRatio
		}
		if perf.TotalScore > 0 {
			stats.TotalScore = perf.TotalScore
		}
	}

	if bill := refs.BillCount; bill != nil {
		stats.BillsProposed = bill.Proposed
		// No per-member pass data upstream; estimate from volume, capped.
		stats.BillPassRate = math.Min(float64(bill.Proposed)*0.4, 80)
	}

	if ranking := refs.Ranking; ranking != nil {
		if ranking.OverallRank > 0 {
			stats.OverallRank = ranking.OverallRank
		}
		if ranking.TotalScore > 0 {
			stats.TotalScore = ranking.TotalScore
		}
	}

	stats.CommitteePosition, stats.CommitteeRank, stats.Committees = committeeInfo(refs.Committees)
	return stats
}

// computePartyStats derives the party stats block, same default policy as
// members.
func computePartyStats(refs types.PartyRefs) types.PartyStats {
	stats := types.PartyStats{
		AvgAttendance:           DefaultPartyAvgAttendance,
		AvgInvalidVoteRatio:     DefaultInvalidVoteRatio,
		AvgVoteMatchRatio:       DefaultVoteMatchRatio,
		AvgVoteMismatchRatio:    DefaultVoteMismatchRatio,
		BillPassSum:             DefaultPartyBillPassSum,
		PetitionSum:             DefaultPartyPetitionSum,
		PetitionPassSum:         DefaultPartyPetitionPassSum,
		CommitteeLeaderCount:    DefaultPartyLeaderCount,
		CommitteeSecretaryCount: DefaultPartySecretaryCount,
		AvgTotalScore:           DefaultPartyAvgTotalScore,
		Rank:                    DefaultOverallRank,
	}

	if perf := refs.Performance; perf != nil {
		if perf.AvgAttendance > 0 {
			stats.AvgAttendance = perf.AvgAttendance
		}
		if perf.AvgInvalidVoteRatio > 0 {
			stats.AvgInvalidVoteRatio = perf.AvgInvalidVoteRatio
		}
		if perf.AvgVoteMatchRatio > 0 {
			stats.AvgVoteMatchRatio = perf.AvgVoteMatchRatio
		}
		if perf.AvgVoteMismatchRatio > 0 {
			stats.AvgVoteMismatchRatio = perf.AvgVoteMismatchRatio
		}
		if perf.BillPassSum > 0 {
			stats.BillPassSum = perf.BillPassSum
		}
		if perf.PetitionSum > 0 {
			stats.PetitionSum = perf.PetitionSum
		}
		if perf.PetitionPassSum > 0 {
			stats.PetitionPassSum = perf.PetitionPassSum
		}
		if perf.CommitteeLeaderCount > 0 {
			stats.CommitteeLeaderCount = perf.CommitteeLeaderCount
		}
		if perf.CommitteeSecretaryCount > 0 {
			stats.CommitteeSecretaryCount = perf.CommitteeSecretaryCount
		}
		if perf.AvgTotalScore > 0 {
			stats.AvgTotalScore = perf.AvgTotalScore
		}
	}

	if ranking := refs.Ranking; ranking != nil && ranking.Rank > 0 {
		stats.Rank = ranking.Rank
	}

	return stats
}
