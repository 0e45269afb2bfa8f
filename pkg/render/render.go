package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/baekilha/baekilha/pkg/compare"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)

	modeOriginalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	modeCalculatedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("240")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	rowStyle = lipgloss.NewStyle()

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	noticeStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(2)

	winStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	loseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tieStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// metricLabels maps metric ids to display labels.
var metricLabels = map[compare.Metric]string{
	compare.MetricAttendance:        "출석률",
	compare.MetricBillPassRate:      "법안 가결률",
	compare.MetricPetitionProposed:  "청원 제안",
	compare.MetricPetitionResult:    "청원 결과",
	compare.MetricInvalidVotes:      "무효표 비율",
	compare.MetricVoteConsistency:   "표결 일치",
	compare.MetricVoteInconsistency: "표결 불일치",
	compare.MetricCommitteeRank:     "위원회 직책",

	compare.MetricPartyAttendance:     "평균 출석률",
	compare.MetricPartyBillPassSum:    "법안 가결 합계",
	compare.MetricPartyPetitionSum:    "청원 합계",
	compare.MetricPartyPetitionPass:   "청원 가결 합계",
	compare.MetricPartyInvalidVotes:   "평균 무효표",
	compare.MetricPartyConsistency:    "평균 표결 일치",
	compare.MetricPartyInconsistency:  "평균 표결 불일치",
	compare.MetricPartyLeaderCount:    "위원장 수",
	compare.MetricPartySecretaryCount: "간사 수",
	compare.MetricPartyAvgScore:       "평균 종합 점수",
}

// View is one rendered page of a snapshot after search, filter, sort, and
// pagination.
type View struct {
	Entries    []types.RankEntry
	Total      int
	Page       int
	TotalPages int
}

// ApplyView filters, sorts, and paginates snapshot entries per the view
// state. Page numbers are 1-based and clamped into range.
func ApplyView(snap *types.Snapshot, vs types.ViewState, pageSize int) View {
	if snap == nil {
		return View{Page: 1, TotalPages: 1}
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	filtered := make([]types.RankEntry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		if vs.Query != "" && !strings.Contains(e.Name, vs.Query) {
			continue
		}
		if vs.Filter != "" && e.Party != vs.Filter {
			continue
		}
		filtered = append(filtered, e)
	}

	switch vs.Sort {
	case "name":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Name < filtered[j].Name
		})
	case "party":
		sort.SliceStable(filtered, func(i, j int) bool {
			if filtered[i].Party != filtered[j].Party {
				return filtered[i].Party < filtered[j].Party
			}
			return filtered[i].Rank < filtered[j].Rank
		})
	default:
		// rank order, as built
	}

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := vs.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return View{
		Entries:    filtered[start:end],
		Total:      len(filtered),
		Page:       page,
		TotalPages: totalPages,
	}
}

// Ranking renders one page of a ranking snapshot as a terminal table.
func Ranking(title string, snap *types.Snapshot, vs types.ViewState, pageSize int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if snap == nil {
		b.WriteString(noticeStyle.Render("데이터 없음"))
		b.WriteString("\n")
		return b.String()
	}

	switch snap.Mode {
	case types.ModeCalculated:
		b.WriteString(modeCalculatedStyle.Render("가중치 적용 랭킹"))
	default:
		b.WriteString(modeOriginalStyle.Render("원본 랭킹"))
	}
	b.WriteString("\n")

	if len(snap.Weights) > 0 {
		keys := make([]string, 0, len(snap.Weights))
		for k := range snap.Weights {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s×%.2f", k, snap.Weights[k]))
		}
		b.WriteString(noticeStyle.Render("가중치: " + strings.Join(parts, "  ")))
		b.WriteString("\n")
	}

	view := ApplyView(snap, vs, pageSize)

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s  %-12s  %-14s  %8s", "순위", "이름", "정당", "점수")))
	b.WriteString("\n")

	for _, e := range view.Entries {
		line := fmt.Sprintf("%-4d  %-12s  %-14s  %8.2f", e.Rank, e.Name, e.Party, e.Score)
		if e.Source == types.ScoreCalculated && e.Score != e.OriginalScore {
			line += fmt.Sprintf("  (원본 %.2f)", e.OriginalScore)
			b.WriteString(changedStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	counter := "명"
	if snap.Kind == types.KindParty {
		counter = "개"
	}
	b.WriteString(noticeStyle.Render(fmt.Sprintf("%d/%d 페이지 · 전체 %d%s", view.Page, view.TotalPages, view.Total, counter)))
	b.WriteString("\n")
	return b.String()
}

// verdictMark renders a per-side verdict marker.
func verdictMark(v compare.Verdict, first bool) string {
	switch {
	case v == compare.VerdictTie:
		return tieStyle.Render("=")
	case (v == compare.VerdictFirst) == first:
		return winStyle.Render("●")
	default:
		return loseStyle.Render("○")
	}
}

// Comparison renders a two-column metric comparison as side-by-side cards.
func Comparison(nameA, nameB string, results []compare.Result) string {
	var left, right strings.Builder

	left.WriteString(titleStyle.Render(nameA))
	left.WriteString("\n")
	right.WriteString(titleStyle.Render(nameB))
	right.WriteString("\n")

	for _, r := range results {
		label := metricLabels[r.Metric]
		if label == "" {
			label = string(r.Metric)
		}
		left.WriteString(fmt.Sprintf("%s %-10s %10.2f\n", verdictMark(r.Verdict, true), label, r.First))
		right.WriteString(fmt.Sprintf("%s %-10s %10.2f\n", verdictMark(r.Verdict, false), label, r.Second))
	}

	score := compare.Tally(results)
	left.WriteString(noticeStyle.Render(fmt.Sprintf("우세 %d개 항목", score.FirstWins)))
	right.WriteString(noticeStyle.Render(fmt.Sprintf("우세 %d개 항목", score.SecondWins)))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		cardStyle.Render(left.String()),
		cardStyle.Render(right.String()),
	) + "\n"
}

// Degraded renders the one-time notice shown when the default dataset is in
// use.
func Degraded() string {
	return noticeStyle.Render("일부 데이터를 불러오지 못해 기본 데이터를 표시합니다") + "\n"
}

// RejectedUpdate renders the notice shown when an incoming distribution was
// rejected and the current ranking kept.
func RejectedUpdate() string {
	return noticeStyle.Render("잘못된 랭킹 데이터를 받아 현재 랭킹을 유지합니다") + "\n"
}

// Connected renders the peer-connected indicator shown when a sibling page
// answers a connection check.
func Connected(peerID string, mode types.DataMode) string {
	label := "원본"
	if mode == types.ModeCalculated {
		label = "가중치 적용"
	}
	short := peerID
	if len(short) > 8 {
		short = short[:8]
	}
	return noticeStyle.Render(fmt.Sprintf("연결됨: %s (%s 모드)", short, label)) + "\n"
}
