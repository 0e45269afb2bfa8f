package fusion

import (
	"context"
	"sort"
	"sync"

	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/google/uuid"
)

// MemberFeeds is the subset of the feed client the member loader needs.
type MemberFeeds interface {
	MemberBasics(ctx context.Context) ([]types.MemberBasic, error)
	MemberPerformances(ctx context.Context) ([]types.MemberPerformance, error)
	MemberBillCounts(ctx context.Context) ([]types.MemberBillCount, error)
	MemberRankings(ctx context.Context) ([]types.MemberRanking, error)
	MemberPhotos(ctx context.Context) ([]types.MemberPhoto, error)
	CommitteeMembers(ctx context.Context) ([]types.CommitteeMembership, error)
}

// PartyFeeds is the subset of the feed client the party loader needs.
type PartyFeeds interface {
	PartyPerformances(ctx context.Context) ([]types.PartyPerformance, error)
	PartyRankings(ctx context.Context) ([]types.PartyRanking, error)
	PartyStats(ctx context.Context) ([]types.PartyStatRecord, error)
}

// Feeds combines both loaders' requirements; *feeds.Client satisfies it.
type Feeds interface {
	MemberFeeds
	PartyFeeds
}

// MemberResult is the outcome of a member load. Degraded means every feed
// failed and the built-in default dataset was substituted.
type MemberResult struct {
	Members     []*types.Member
	Degraded    bool
	FailedFeeds []string
}

// PartyResult is the outcome of a party load.
type PartyResult struct {
	Parties     []*types.Party
	Degraded    bool
	FailedFeeds []string
}

// Loader fuses feed records into entities keyed by display name.
type Loader struct {
	feeds Feeds
}

// NewLoader creates a loader over the given feed source.
func NewLoader(f Feeds) *Loader {
	return &Loader{feeds: f}
}

// memberFeedData collects the raw output of the concurrent member fetches.
type memberFeedData struct {
	basics       []types.MemberBasic
	performances []types.MemberPerformance
	billCounts   []types.MemberBillCount
	rankings     []types.MemberRanking
	photos       []types.MemberPhoto
	committees   []types.CommitteeMembership
}

// LoadMembers fetches all six member feeds concurrently and fuses them.
// Individual feed failures only degrade stats; LoadMembers itself fails only
// on context cancellation. When every feed fails the default dataset is
// returned with Degraded set.
func (l *Loader) LoadMembers(ctx context.Context) (*MemberResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.WithComponent("fusion")

	var (
		data   memberFeedData
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed []string
	)

	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
				logger.Warn().Err(err).Str("feed", name).Msg("feed unavailable")
			}
		}()
	}

	fetch("members", func() error {
		recs, err := l.feeds.MemberBasics(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.basics = recs
		mu.Unlock()
		return nil
	})
	fetch("member_performance", func() error {
		recs, err := l.feeds.MemberPerformances(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.performances = recs
		mu.Unlock()
		return nil
	})
	fetch("member_bill_count", func() error {
		recs, err := l.feeds.MemberBillCounts(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.billCounts = recs
		mu.Unlock()
		return nil
	})
	fetch("member_ranking", func() error {
		recs, err := l.feeds.MemberRankings(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.rankings = recs
		mu.Unlock()
		return nil
	})
	fetch("member_photos", func() error {
		recs, err := l.feeds.MemberPhotos(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.photos = recs
		mu.Unlock()
		return nil
	})
	fetch("committee_members", func() error {
		recs, err := l.feeds.CommitteeMembers(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.committees = recs
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(failed)

	members := fuseMembers(&data)
	if len(members) == 0 {
		logger.Error().Msg("all member feeds failed, serving default dataset")
		metrics.DegradedLoadsTotal.WithLabelValues(string(types.KindMember)).Inc()
		return &MemberResult{
			Members:     DefaultMembers(),
			Degraded:    true,
			FailedFeeds: failed,
		}, nil
	}

	metrics.EntitiesFused.WithLabelValues(string(types.KindMember)).Set(float64(len(members)))
	logger.Info().
		Int("members", len(members)).
		Int("failed_feeds", len(failed)).
		Msg("member fusion complete")

	return &MemberResult{Members: members, FailedFeeds: failed}, nil
}

// fuseMembers joins all member feeds on display name, with a secondary join
// from bill counts to performance records via lawmaker id.
func fuseMembers(data *memberFeedData) []*types.Member {
	byName := make(map[string]*types.MemberRefs)
	var order []string

	ref := func(name string) *types.MemberRefs {
		if name == "" {
			return nil
		}
		if r, ok := byName[name]; ok {
			return r
		}
		r := &types.MemberRefs{}
		byName[name] = r
		order = append(order, name)
		return r
	}

	for i := range data.basics {
		if r := ref(data.basics[i].Name); r != nil {
			r.Basic = &data.basics[i]
		}
	}
	perfByID := make(map[string]string) // lawmaker id → name
	for i := range data.performances {
		p := &data.performances[i]
		if r := ref(p.LawmakerName); r != nil {
			r.Performance = p
			if p.LawmakerID != "" {
				perfByID[p.LawmakerID] = p.LawmakerName
			}
		}
	}
	for i := range data.billCounts {
		b := &data.billCounts[i]
		name := b.Name
		// Bill counts sometimes carry only the lawmaker id; resolve it
		// through the performance feed before giving up.
		if name == "" || byName[name] == nil {
			if mapped, ok := perfByID[b.ID]; ok {
				name = mapped
			}
		}
		if r := ref(name); r != nil {
			r.BillCount = b
		}
	}
	for i := range data.rankings {
		if r := ref(data.rankings[i].Name); r != nil {
			r.Ranking = &data.rankings[i]
		}
	}
	for i := range data.photos {
		if r := ref(data.photos[i].Name); r != nil {
			r.Photo = &data.photos[i]
		}
	}
	for i := range data.committees {
		if r := ref(data.committees[i].MemberName); r != nil {
			r.Committees = append(r.Committees, data.committees[i])
		}
	}

	members := make([]*types.Member, 0, len(order))
	for _, name := range order {
		refs := byName[name]
		m := &types.Member{
			Name:  name,
			Party: memberParty(refs),
			Refs:  *refs,
			Stats: computeMemberStats(*refs),
		}
		if refs.Basic != nil {
			m.District = refs.Basic.District
			m.ID = refs.Basic.MonaCode
		}
		if m.ID == "" && refs.Performance != nil {
			m.ID = refs.Performance.LawmakerID
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if refs.Photo != nil {
			m.PhotoURL = refs.Photo.URL
		}
		members = append(members, m)
	}
	return members
}

// memberParty resolves the party label with feed priority:
// roster > performance > ranking > committee, else unaffiliated.
func memberParty(refs *types.MemberRefs) string {
	if refs.Basic != nil && refs.Basic.Party != "" {
		return refs.Basic.Party
	}
	if refs.Performance != nil && refs.Performance.Party != "" {
		return refs.Performance.Party
	}
	if refs.Ranking != nil && refs.Ranking.Party != "" {
		return refs.Ranking.Party
	}
	for _, c := range refs.Committees {
		if c.Party != "" {
			return c.Party
		}
	}
	return UnaffiliatedParty
}

// LoadParties fetches the three party feeds concurrently and fuses them.
// Same degradation contract as LoadMembers.
func (l *Loader) LoadParties(ctx context.Context) (*PartyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.WithComponent("fusion")

	var (
		performances []types.PartyPerformance
		rankings     []types.PartyRanking
		statRecords  []types.PartyStatRecord
		mu           sync.Mutex
		wg           sync.WaitGroup
		failed       []string
	)

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
				logger.Warn().Err(err).Str("feed", name).Msg("feed unavailable")
			}
		}()
	}

	run("party_performance", func() error {
		recs, err := l.feeds.PartyPerformances(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		performances = recs
		mu.Unlock()
		return nil
	})
	run("party_ranking_score", func() error {
		recs, err := l.feeds.PartyRankings(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		rankings = recs
		mu.Unlock()
		return nil
	})
	run("party_ranking_stats", func() error {
		recs, err := l.feeds.PartyStats(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		statRecords = recs
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(failed)

	parties := fuseParties(performances, rankings, statRecords)
	if len(parties) == 0 {
		logger.Error().Msg("all party feeds failed, serving default dataset")
		metrics.DegradedLoadsTotal.WithLabelValues(string(types.KindParty)).Inc()
		return &PartyResult{
			Parties:     DefaultParties(),
			Degraded:    true,
			FailedFeeds: failed,
		}, nil
	}

	metrics.EntitiesFused.WithLabelValues(string(types.KindParty)).Set(float64(len(parties)))
	logger.Info().
		Int("parties", len(parties)).
		Int("failed_feeds", len(failed)).
		Msg("party fusion complete")

	return &PartyResult{Parties: parties, FailedFeeds: failed}, nil
}

func fuseParties(performances []types.PartyPerformance, rankings []types.PartyRanking, statRecords []types.PartyStatRecord) []*types.Party {
	byName := make(map[string]*types.PartyRefs)
	var order []string

	ref := func(name string) *types.PartyRefs {
		if name == "" {
			return nil
		}
		if r, ok := byName[name]; ok {
			return r
		}
		r := &types.PartyRefs{}
		byName[name] = r
		order = append(order, name)
		return r
	}

	for i := range performances {
		if r := ref(performances[i].Party); r != nil {
			r.Performance = &performances[i]
		}
	}
	for i := range rankings {
		if r := ref(rankings[i].Party); r != nil {
			r.Ranking = &rankings[i]
		}
	}
	for i := range statRecords {
		if r := ref(statRecords[i].Party); r != nil {
			r.Stats = &statRecords[i]
		}
	}

	parties := make([]*types.Party, 0, len(order))
	for _, name := range order {
		refs := byName[name]
		parties = append(parties, &types.Party{
			ID:    uuid.NewString(),
			Name:  name,
			Refs:  *refs,
			Stats: computePartyStats(*refs),
		})
	}
	return parties
}
