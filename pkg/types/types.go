package types

import "time"

// EntityKind distinguishes the two ranked entity kinds.
type EntityKind string

const (
	KindMember EntityKind = "member"
	KindParty  EntityKind = "party"
)

// DataMode identifies which snapshot version a page considers authoritative.
type DataMode string

const (
	ModeOriginal   DataMode = "original"
	ModeCalculated DataMode = "calculated"
)

// ScoreSource records where an entry's active score came from.
type ScoreSource string

const (
	ScoreOriginal   ScoreSource = "api_original"
	ScoreCalculated ScoreSource = "api_calculated"
	ScoreFallback   ScoreSource = "fallback"
)

// MemberBasic is one record from the member roster feed.
type MemberBasic struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	District string `json:"district"`
	Phone    string `json:"phone"`
	Homepage string `json:"homepage"`
	MonaCode string `json:"mona_cd"`
}

// MemberPerformance is one record from the performance feed.
type MemberPerformance struct {
	LawmakerName            string  `json:"lawmaker_name"`
	LawmakerID              string  `json:"lawmaker_id"`
	Party                   string  `json:"party"`
	AttendanceScore         float64 `json:"attendance_score"`
	PetitionScore           float64 `json:"petition_score"`
	PetitionResultScore     float64 `json:"petition_result_score"`
	InvalidVoteRatio        float64 `json:"invalid_vote_ratio"`
	VoteMatchRatio          float64 `json:"vote_match_ratio"`
	VoteMismatchRatio       float64 `json:"vote_mismatch_ratio"`
	CommitteeLeaderCount    int     `json:"committee_leader_count"`
	CommitteeSecretaryCount int     `json:"committee_secretary_count"`
	TotalScore              float64 `json:"total_score"`
}

// MemberBillCount is one record from the bill-count feed. ID carries the same
// lawmaker id as the performance feed, which is what makes the secondary join
// possible when the name join misses.
type MemberBillCount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Proposed int    `json:"total"`
	Approved int    `json:"approved"`
}

// MemberRanking is one record from the score-ranking feed. The upstream feed
// names members HG_NM and parties POLY_NM.
type MemberRanking struct {
	Name        string  `json:"HG_NM"`
	Party       string  `json:"POLY_NM"`
	OverallRank int     `json:"overall_rank"`
	TotalScore  float64 `json:"total_score"`
}

// MemberPhoto is one record from the photo feed.
type MemberPhoto struct {
	Name string `json:"member_name"`
	URL  string `json:"photo"`
}

// CommitteeMembership is one committee seat from the committee feed. A member
// usually appears more than once.
type CommitteeMembership struct {
	MemberName string `json:"member_name"`
	MemberCode string `json:"member_code"`
	Party      string `json:"party"`
	Committee  string `json:"committee"`
	Position   string `json:"position"`
}

// MemberRefs holds one optional reference per source feed. A nil field means
// that feed did not contribute a record for this member.
type MemberRefs struct {
	Basic       *MemberBasic          `json:"basic,omitempty"`
	Performance *MemberPerformance    `json:"performance,omitempty"`
	BillCount   *MemberBillCount      `json:"bill_count,omitempty"`
	Ranking     *MemberRanking        `json:"ranking,omitempty"`
	Photo       *MemberPhoto          `json:"photo,omitempty"`
	Committees  []CommitteeMembership `json:"committees,omitempty"`
}

// CommitteeSeat is a normalized committee assignment with its position rank.
type CommitteeSeat struct {
	Committee string `json:"committee"`
	Position  string `json:"position"`
	Rank      int    `json:"rank"`
}

// MemberStats is the derived statistics block for a fused member. Every field
// is always populated; missing feeds fall back to documented defaults.
type MemberStats struct {
	Attendance        float64         `json:"attendance"`
	BillsProposed     int             `json:"bills_proposed"`
	BillPassRate      float64         `json:"bill_pass_rate"`
	PetitionsProposed float64         `json:"petitions_proposed"`
	PetitionResults   float64         `json:"petition_results"`
	CommitteePosition string          `json:"committee_position"`
	CommitteeRank     int             `json:"committee_rank"`
	Committees        []CommitteeSeat `json:"committees,omitempty"`
	InvalidVoteRatio  float64         `json:"invalid_vote_ratio"`
	VoteMatchRatio    float64         `json:"vote_match_ratio"`
	VoteMismatchRatio float64         `json:"vote_mismatch_ratio"`
	OverallRank       int             `json:"overall_rank"`
	TotalScore        float64         `json:"total_score"`
}

// Member is the fused per-name view across all member feeds.
//
// ID is a display convenience only: it falls back to a random token when no
// feed supplies an identifier, and is not stable across reloads. Name is the
// de facto join key.
type Member struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Party    string      `json:"party"`
	District string      `json:"district"`
	PhotoURL string      `json:"photo_url,omitempty"`
	Refs     MemberRefs  `json:"refs"`
	Stats    MemberStats `json:"stats"`
}

// PartyPerformance is one record from the party performance feed.
type PartyPerformance struct {
	Party                   string  `json:"party"`
	AvgAttendance           float64 `json:"avg_attendance"`
	AvgInvalidVoteRatio     float64 `json:"avg_invalid_vote_ratio"`
	AvgVoteMatchRatio       float64 `json:"avg_vote_match_ratio"`
	AvgVoteMismatchRatio    float64 `json:"avg_vote_mismatch_ratio"`
	BillPassSum             int     `json:"bill_pass_sum"`
	PetitionSum             int     `json:"petition_sum"`
	PetitionPassSum         int     `json:"petition_pass_sum"`
	CommitteeLeaderCount    int     `json:"committee_leader_count"`
	CommitteeSecretaryCount int     `json:"committee_secretary_count"`
	AvgTotalScore           float64 `json:"avg_total_score"`
}

// PartyRanking is one record from the party score-ranking feed.
type PartyRanking struct {
	Party string `json:"POLY_NM"`
	Rank  int    `json:"rank"`
}

// PartyStatRecord is one record from the party stats feed. The feed's schema
// drifts, so everything beyond the party name is kept opaque for detail views.
type PartyStatRecord struct {
	Party  string         `json:"party"`
	Fields map[string]any `json:"fields,omitempty"`
}

// PartyRefs holds one optional reference per party source feed.
type PartyRefs struct {
	Performance *PartyPerformance `json:"performance,omitempty"`
	Ranking     *PartyRanking     `json:"ranking,omitempty"`
	Stats       *PartyStatRecord  `json:"stats,omitempty"`
}

// PartyStats is the derived statistics block for a fused party. Always fully
// populated, like MemberStats.
type PartyStats struct {
	AvgAttendance           float64 `json:"avg_attendance"`
	AvgInvalidVoteRatio     float64 `json:"avg_invalid_vote_ratio"`
	AvgVoteMatchRatio       float64 `json:"avg_vote_match_ratio"`
	AvgVoteMismatchRatio    float64 `json:"avg_vote_mismatch_ratio"`
	BillPassSum             int     `json:"bill_pass_sum"`
	PetitionSum             int     `json:"petition_sum"`
	PetitionPassSum         int     `json:"petition_pass_sum"`
	CommitteeLeaderCount    int     `json:"committee_leader_count"`
	CommitteeSecretaryCount int     `json:"committee_secretary_count"`
	AvgTotalScore           float64 `json:"avg_total_score"`
	Rank                    int     `json:"rank"`
}

// Party is the fused per-name view across all party feeds.
type Party struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Refs  PartyRefs  `json:"refs"`
	Stats PartyStats `json:"stats"`
}

// RankEntry is one row of a ranking snapshot.
type RankEntry struct {
	Rank          int         `json:"rank"`
	Name          string      `json:"name"`
	Party         string      `json:"party,omitempty"`
	Score         float64     `json:"score"`
	OriginalScore float64     `json:"original_score"`
	Source        ScoreSource `json:"score_source"`
	WeightApplied bool        `json:"weight_applied,omitempty"`
}

// Snapshot is the ranked list a page currently treats as authoritative.
// Entries are rank-ordered with ranks contiguous from 1. Weights is set only
// in calculated mode.
type Snapshot struct {
	Kind       EntityKind         `json:"kind"`
	Mode       DataMode           `json:"mode"`
	Entries    []RankEntry        `json:"entries"`
	Weights    map[string]float64 `json:"weights,omitempty"`
	ReceivedAt time.Time          `json:"received_at"`
}

// Clone returns a deep copy so callers can hold a snapshot across later
// transitions without aliasing the manager's state.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Kind:       s.Kind,
		Mode:       s.Mode,
		Entries:    make([]RankEntry, len(s.Entries)),
		ReceivedAt: s.ReceivedAt,
	}
	copy(out.Entries, s.Entries)
	if s.Weights != nil {
		out.Weights = make(map[string]float64, len(s.Weights))
		for k, v := range s.Weights {
			out.Weights[k] = v
		}
	}
	return out
}

// CalculatedEntry is one recalculated row as carried by a
// calculated-distribution message.
type CalculatedEntry struct {
	Name            string  `json:"name"`
	Party           string  `json:"party,omitempty"`
	CalculatedScore float64 `json:"calculated_score"`
	OriginalScore   float64 `json:"original_score"`
	ScoreChanged    bool    `json:"score_changed"`
	WeightApplied   bool    `json:"weight_applied"`
}

// ViewState is the page-local presentation state (search query, party filter,
// sort order, current page) that must survive a snapshot swap.
type ViewState struct {
	Query  string `json:"query,omitempty"`
	Filter string `json:"filter,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Page   int    `json:"page,omitempty"`
}
