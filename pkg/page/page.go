package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/baekilha/baekilha/pkg/channel"
	"github.com/baekilha/baekilha/pkg/compare"
	"github.com/baekilha/baekilha/pkg/config"
	"github.com/baekilha/baekilha/pkg/feeds"
	"github.com/baekilha/baekilha/pkg/fusion"
	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/baekilha/baekilha/pkg/render"
	"github.com/baekilha/baekilha/pkg/snapshot"
	"github.com/baekilha/baekilha/pkg/storage"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/rs/zerolog"
)

// Page is one running ranking process. It owns the per-page cache, the feed
// loader, the snapshot manager, and a notification channel, and reacts to
// messages from sibling pages until its context is cancelled.
type Page struct {
	cfg     *config.Config
	kind    types.EntityKind
	store   storage.Store
	loader  *fusion.Loader
	manager *snapshot.Manager
	channel *channel.Channel
	logger  zerolog.Logger

	// Out receives rendered output; stdout unless a test swaps it.
	Out io.Writer

	mu       sync.Mutex
	members  []*types.Member
	parties  []*types.Party
	degraded bool
	view     types.ViewState

	metricsSrv *http.Server
	collector  *metrics.Collector
}

// New wires a page for one entity kind. Each kind gets its own bolt file so
// two page processes never contend for the same database lock.
func New(cfg *config.Config, kind types.EntityKind) (*Page, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	store, err := storage.NewBoltStore(cfg.DataDir, string(kind)+"_page")
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache: %w", err)
	}
	metrics.RegisterComponent("storage", true, "")

	client := feeds.NewClient(feeds.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
	})

	p := &Page{
		cfg:    cfg,
		kind:   kind,
		store:  store,
		loader: fusion.NewLoader(client),
		logger: log.WithPage(string(kind)),
		Out:    os.Stdout,
	}
	p.manager = snapshot.NewManager(kind, snapshot.SourceFunc(p.loadSnapshot), store)

	ch, err := channel.New(channel.Options{
		MulticastGroup:    cfg.Channel.MulticastGroup,
		DataDir:           cfg.DataDir,
		Store:             store,
		ReconcileInterval: cfg.Channel.ReconcileInterval,
		Mode:              p.manager.Mode,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open notification channel: %w", err)
	}
	p.channel = ch

	if state, err := store.GetViewState(string(kind)); err == nil {
		p.view = *state
	} else if !errors.Is(err, storage.ErrNotFound) {
		p.logger.Warn().Err(err).Msg("failed to restore view state")
	}

	return p, nil
}

// Close releases the cache and channel.
func (p *Page) Close() {
	p.channel.Stop()
	if p.collector != nil {
		p.collector.Stop()
	}
	if p.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = p.metricsSrv.Shutdown(shutdownCtx)
		cancel()
	}
	if err := p.store.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to close page cache")
	}
}

// loadSnapshot is the snapshot manager's source: fetch, fuse, cache the
// entities for comparison and weight recalculation, and rank.
func (p *Page) loadSnapshot(ctx context.Context) (*types.Snapshot, error) {
	switch p.kind {
	case types.KindParty:
		result, err := p.loader.LoadParties(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.parties = result.Parties
		p.degraded = result.Degraded
		p.mu.Unlock()
		if err := p.store.ReplaceParties(result.Parties); err != nil {
			p.logger.Warn().Err(err).Msg("failed to cache parties")
		}
		return snapshot.BuildPartySnapshot(result.Parties, result.Degraded), nil
	default:
		result, err := p.loader.LoadMembers(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.members = result.Members
		p.degraded = result.Degraded
		p.mu.Unlock()
		if err := p.store.ReplaceMembers(result.Members); err != nil {
			p.logger.Warn().Err(err).Msg("failed to cache members")
		}
		return snapshot.BuildMemberSnapshot(result.Members, result.Degraded), nil
	}
}

// Run loads the initial ranking, renders it, announces the page to its
// siblings, and then reacts to channel messages until ctx is cancelled.
func (p *Page) Run(ctx context.Context) error {
	p.startMetrics()
	p.channel.Start()

	if err := p.manager.Reload(ctx); err != nil {
		if p.restoreFromCache() != nil {
			return fmt.Errorf("failed to load ranking: %w", err)
		}
		p.logger.Warn().Err(err).Msg("feeds unreachable, serving cached snapshot")
	}
	p.render()

	p.channel.CheckPeers()

	sub := p.channel.Subscribe()
	defer p.channel.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-sub:
			p.handleMessage(ctx, msg)
		}
	}
}

// restoreFromCache falls back to the locally cached original snapshot. It
// returns an error only when the cache is empty too.
func (p *Page) restoreFromCache() error {
	cached, err := p.store.GetOriginalSnapshot(p.kind)
	if err != nil {
		return err
	}
	return p.manager.ApplyCachedOriginal(cached)
}

// handleMessage applies one notification from a sibling page.
func (p *Page) handleMessage(ctx context.Context, msg *channel.Message) {
	switch msg.Type {
	case channel.TypeCalculatedData:
		if msg.Kind != "" && msg.Kind != p.kind {
			return
		}
		if err := p.manager.ApplyCalculated(msg.Entries, msg.Weights); err != nil {
			p.logger.Warn().Err(err).Msg("rejected calculated distribution")
			fmt.Fprint(p.Out, render.RejectedUpdate())
			return
		}
		p.channel.Ack(msg)
		p.render()
	case channel.TypeResetToOriginal:
		if err := p.manager.ResetToOriginal(ctx); err != nil {
			p.logger.Warn().Err(err).Msg("failed to reset to original")
			return
		}
		p.channel.Ack(msg)
		p.render()
	case channel.TypeConnectionCheck:
		p.logger.Debug().Str("peer", msg.SenderID).Msg("peer checking in")
	case channel.TypeConnectionResponse:
		fmt.Fprint(p.Out, render.Connected(msg.SenderID, msg.DataMode))
	}
}

// render draws the current snapshot through the persisted view state.
func (p *Page) render() {
	snap := p.manager.Current()

	p.mu.Lock()
	degraded := p.degraded
	view := p.view
	p.mu.Unlock()

	if degraded {
		fmt.Fprint(p.Out, render.Degraded())
	}

	title := "국회의원 랭킹"
	if p.kind == types.KindParty {
		title = "정당 랭킹"
	}
	fmt.Fprint(p.Out, render.Ranking(title, snap, view, p.cfg.PageSize))
}

// SetView updates and persists the page's presentation state, then re-renders.
// The view survives both process restarts and snapshot swaps.
func (p *Page) SetView(view types.ViewState) {
	p.mu.Lock()
	p.view = view
	p.mu.Unlock()

	if err := p.store.SaveViewState(string(p.kind), &view); err != nil {
		p.logger.Warn().Err(err).Msg("failed to persist view state")
	}
	p.render()
}

// ensureLoaded guarantees fused entities are in memory, loading once if the
// page has not rendered yet (compare and weights commands run headless).
func (p *Page) ensureLoaded(ctx context.Context) error {
	p.mu.Lock()
	loaded := len(p.members) > 0 || len(p.parties) > 0
	p.mu.Unlock()
	if loaded {
		return nil
	}
	err := p.manager.Reload(ctx)
	if errors.Is(err, snapshot.ErrLoadInProgress) {
		return nil
	}
	return err
}

// ApplyWeights recalculates scores from the fused stats under the given
// weights, applies the result locally, and distributes it to sibling pages.
func (p *Page) ApplyWeights(ctx context.Context, weights map[string]float64) error {
	if err := p.ensureLoaded(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	var entries []types.CalculatedEntry
	if p.kind == types.KindParty {
		entries = RecalculateParties(p.parties, weights)
	} else {
		entries = RecalculateMembers(p.members, weights)
	}
	p.mu.Unlock()

	if err := p.manager.ApplyCalculated(entries, weights); err != nil {
		return err
	}

	msg := channel.NewMessage(channel.TypeCalculatedData, p.channel.PageID())
	msg.Kind = p.kind
	msg.Entries = entries
	msg.Weights = weights
	p.channel.Publish(msg)

	p.render()
	return nil
}

// ResetWeights restores the original ranking locally and tells sibling pages
// to do the same.
func (p *Page) ResetWeights(ctx context.Context) error {
	if err := p.manager.ResetToOriginal(ctx); err != nil {
		return err
	}
	p.channel.Publish(channel.NewMessage(channel.TypeResetToOriginal, p.channel.PageID()))
	p.render()
	return nil
}

// findMember resolves a display name against the fused set, falling back to
// the page cache for names fused by an earlier run.
func (p *Page) findMember(name string) (*types.Member, error) {
	p.mu.Lock()
	for _, m := range p.members {
		if m.Name == name {
			p.mu.Unlock()
			return m, nil
		}
	}
	p.mu.Unlock()
	return p.store.GetMemberByName(name)
}

func (p *Page) findParty(name string) (*types.Party, error) {
	p.mu.Lock()
	for _, pt := range p.parties {
		if pt.Name == name {
			p.mu.Unlock()
			return pt, nil
		}
	}
	p.mu.Unlock()
	return p.store.GetPartyByName(name)
}

// CompareMembers renders a pairwise metric comparison of two members.
func (p *Page) CompareMembers(ctx context.Context, nameA, nameB string) (string, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return "", err
	}
	a, err := p.findMember(nameA)
	if err != nil {
		return "", fmt.Errorf("unknown member %q: %w", nameA, err)
	}
	b, err := p.findMember(nameB)
	if err != nil {
		return "", fmt.Errorf("unknown member %q: %w", nameB, err)
	}
	return render.Comparison(a.Name, b.Name, compare.MembersAll(a, b)), nil
}

// CompareParties renders a pairwise metric comparison of two parties.
func (p *Page) CompareParties(ctx context.Context, nameA, nameB string) (string, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return "", err
	}
	a, err := p.findParty(nameA)
	if err != nil {
		return "", fmt.Errorf("unknown party %q: %w", nameA, err)
	}
	b, err := p.findParty(nameB)
	if err != nil {
		return "", fmt.Errorf("unknown party %q: %w", nameB, err)
	}
	return render.Comparison(a.Name, b.Name, compare.PartiesAll(a, b)), nil
}

// startMetrics exposes /metrics, /health, /ready, and /live when a listen
// address is configured.
func (p *Page) startMetrics() {
	if p.cfg.MetricsAddr == "" {
		return
	}

	p.collector = metrics.NewCollector(p.store)
	p.collector.Start()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())
	mux.HandleFunc("/live", metrics.LivenessHandler())

	p.metricsSrv = &http.Server{Addr: p.cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := p.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Warn().Err(err).Msg("metrics listener failed")
		}
	}()
	p.logger.Info().Str("addr", p.cfg.MetricsAddr).Msg("metrics listening")
}
