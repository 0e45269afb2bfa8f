package compare

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baekilha/baekilha/pkg/types"
)

// Epsilon is the tie threshold: values this close are equal for ranking
// purposes.
const Epsilon = 0.01

// Direction says which way a metric is better.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// Verdict is the outcome of one metric comparison.
type Verdict string

const (
	VerdictFirst  Verdict = "first"
	VerdictSecond Verdict = "second"
	VerdictTie    Verdict = "tie"
)

// Metric identifies one comparable member statistic.
type Metric string

const (
	MetricAttendance        Metric = "attendance"
	MetricBillPassRate      Metric = "bill_pass_rate"
	MetricPetitionProposed  Metric = "petition_proposed"
	MetricPetitionResult    Metric = "petition_result"
	MetricInvalidVotes      Metric = "invalid_votes"
	MetricVoteConsistency   Metric = "vote_consistency"
	MetricVoteInconsistency Metric = "vote_inconsistency"
	MetricCommitteeRank     Metric = "committee_rank"
)

// memberPolicy is the canonical direction table for member metrics.
var memberPolicy = map[Metric]Direction{
	MetricAttendance:        HigherIsBetter,
	MetricBillPassRate:      HigherIsBetter,
	MetricPetitionProposed:  HigherIsBetter,
	MetricPetitionResult:    HigherIsBetter,
	MetricInvalidVotes:      LowerIsBetter,
	MetricVoteConsistency:   HigherIsBetter,
	MetricVoteInconsistency: LowerIsBetter,
	MetricCommitteeRank:     HigherIsBetter,
}

// MemberMetrics lists all member metrics in display order.
var MemberMetrics = []Metric{
	MetricAttendance,
	MetricBillPassRate,
	MetricPetitionProposed,
	MetricPetitionResult,
	MetricInvalidVotes,
	MetricVoteConsistency,
	MetricVoteInconsistency,
	MetricCommitteeRank,
}

// Result is the outcome of comparing one metric between two entities.
type Result struct {
	Metric    Metric
	First     float64
	Second    float64
	Direction Direction
	Verdict   Verdict
}

// Values compares two raw values under a direction, treating differences
// within Epsilon as ties. Symmetric: swapping a and b mirrors the verdict.
func Values(a, b float64, dir Direction) Verdict {
	diff := a - b
	if diff < Epsilon && diff > -Epsilon {
		return VerdictTie
	}
	if dir == LowerIsBetter {
		diff = -diff
	}
	if diff > 0 {
		return VerdictFirst
	}
	return VerdictSecond
}

// ParseNumeric extracts the leading numeric portion of a formatted stat
// string ("85.5%", "12건", "3위"). Returns false when the string has no
// numeric prefix.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for i, r := range s {
		if r >= '0' && r <= '9' {
			end = i + 1
			continue
		}
		if r == '.' && !seenDot && end == i {
			seenDot = true
			end = i + 1
			continue
		}
		if (r == '-' || r == '+') && i == 0 {
			end = 1
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Strings compares two formatted stat strings under a direction. Unparseable
// operands compare as ties: a rendering glitch must not invent a winner.
func Strings(a, b string, dir Direction) Verdict {
	av, aok := ParseNumeric(a)
	bv, bok := ParseNumeric(b)
	if !aok || !bok {
		return VerdictTie
	}
	return Values(av, bv, dir)
}

func memberMetricValue(stats types.MemberStats, metric Metric) (float64, bool) {
	switch metric {
	case MetricAttendance:
		return stats.Attendance, true
	case MetricBillPassRate:
		return stats.BillPassRate, true
	case MetricPetitionProposed:
		return stats.PetitionsProposed, true
	case MetricPetitionResult:
		return stats.PetitionResults, true
	case MetricInvalidVotes:
		return stats.InvalidVoteRatio, true
	case MetricVoteConsistency:
		return stats.VoteMatchRatio, true
	case MetricVoteInconsistency:
		return stats.VoteMismatchRatio, true
	case MetricCommitteeRank:
		return float64(stats.CommitteeRank), true
	default:
		return 0, false
	}
}

// Members compares one metric between two members.
func Members(a, b *types.Member, metric Metric) (Result, error) {
	dir, ok := memberPolicy[metric]
	if !ok {
		return Result{}, fmt.Errorf("unknown metric: %s", metric)
	}
	av, _ := memberMetricValue(a.Stats, metric)
	bv, _ := memberMetricValue(b.Stats, metric)
	return Result{
		Metric:    metric,
		First:     av,
		Second:    bv,
		Direction: dir,
		Verdict:   Values(av, bv, dir),
	}, nil
}

// MembersAll compares every member metric in display order.
func MembersAll(a, b *types.Member) []Result {
	results := make([]Result, 0, len(MemberMetrics))
	for _, metric := range MemberMetrics {
		r, err := Members(a, b, metric)
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	return results
}

// Score tallies verdicts into a win count per side.
type Score struct {
	FirstWins  int
	SecondWins int
	Ties       int
}

// Tally counts verdicts across a result set.
func Tally(results []Result) Score {
	var s Score
	for _, r := range results {
		switch r.Verdict {
		case VerdictFirst:
			s.FirstWins++
		case VerdictSecond:
			s.SecondWins++
		default:
			s.Ties++
		}
	}
	return s
}
