package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/baekilha/baekilha/pkg/log"
	"github.com/baekilha/baekilha/pkg/metrics"
	"github.com/baekilha/baekilha/pkg/types"
	"golang.org/x/time/rate"
)

// Feed endpoint paths, relative to the API base URL.
const (
	PathMembers           = "/members"
	PathMemberPerformance = "/member_performance"
	PathMemberBillCount   = "/member_bill_count"
	PathMemberRanking     = "/member_ranking"
	PathMemberPhotos      = "/member_photos"
	PathCommitteeMembers  = "/committee_members"
	PathPartyPerformance  = "/party_performance"
	PathPartyRanking      = "/party_ranking_score"
	PathPartyStats        = "/party_ranking_stats"
)

// Config holds feed client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client fetches feed records over HTTP with retries and rate limiting.
// Every method is safe to call concurrently.
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a feed client. Zero config fields get the usual defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		// The upstream API is a shared public service; keep bursts polite.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// fetch retrieves the raw body of one feed, retrying transient failures with
// linear backoff (1s, 2s, 3s ...).
func (c *Client) fetch(ctx context.Context, feed, path string) ([]byte, error) {
	logger := log.WithFeed(feed)
	timer := metrics.NewTimer()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.doOnce(ctx, path)
		if err == nil {
			timer.ObserveDurationVec(metrics.FeedFetchDuration, feed)
			metrics.FeedFetchesTotal.WithLabelValues(feed, "success").Inc()
			return body, nil
		}
		lastErr = err

		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Msg("feed fetch failed")
		metrics.FeedRetriesTotal.WithLabelValues(feed).Inc()

		if attempt < c.maxRetries {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	metrics.FeedFetchesTotal.WithLabelValues(feed, "failure").Inc()
	return nil, fmt.Errorf("feed %s: %w", feed, lastErr)
}

func (c *Client) doOnce(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// decodeRecords unmarshals a feed body into records of type T, tolerating the
// two shapes the API serves (bare array, or wrapped in a "data" field) and
// silently skipping null or malformed rows. A malformed row never fails the
// whole feed.
func decodeRecords[T any](feed string, body []byte) []T {
	logger := log.WithFeed(feed)

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		var wrapper struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil || wrapper.Data == nil {
			logger.Warn().Msg("feed body is not a record list")
			return nil
		}
		raws = wrapper.Data
	}

	out := make([]T, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		if len(raw) == 0 || string(raw) == "null" {
			dropped++
			continue
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Msg("skipped malformed records")
	}
	return out
}

func fetchList[T any](ctx context.Context, c *Client, feed, path string) ([]T, error) {
	body, err := c.fetch(ctx, feed, path)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](feed, body), nil
}

// MemberBasics fetches the member roster feed.
func (c *Client) MemberBasics(ctx context.Context) ([]types.MemberBasic, error) {
	return fetchList[types.MemberBasic](ctx, c, "members", PathMembers)
}

// MemberPerformances fetches the member performance feed.
func (c *Client) MemberPerformances(ctx context.Context) ([]types.MemberPerformance, error) {
	return fetchList[types.MemberPerformance](ctx, c, "member_performance", PathMemberPerformance)
}

// MemberBillCounts fetches the bill-count feed.
func (c *Client) MemberBillCounts(ctx context.Context) ([]types.MemberBillCount, error) {
	return fetchList[types.MemberBillCount](ctx, c, "member_bill_count", PathMemberBillCount)
}

// MemberRankings fetches the member score-ranking feed.
func (c *Client) MemberRankings(ctx context.Context) ([]types.MemberRanking, error) {
	return fetchList[types.MemberRanking](ctx, c, "member_ranking", PathMemberRanking)
}

// MemberPhotos fetches the member photo feed.
func (c *Client) MemberPhotos(ctx context.Context) ([]types.MemberPhoto, error) {
	return fetchList[types.MemberPhoto](ctx, c, "member_photos", PathMemberPhotos)
}

// CommitteeMembers fetches the committee membership feed.
func (c *Client) CommitteeMembers(ctx context.Context) ([]types.CommitteeMembership, error) {
	return fetchList[types.CommitteeMembership](ctx, c, "committee_members", PathCommitteeMembers)
}

// PartyPerformances fetches the party performance feed.
func (c *Client) PartyPerformances(ctx context.Context) ([]types.PartyPerformance, error) {
	return fetchList[types.PartyPerformance](ctx, c, "party_performance", PathPartyPerformance)
}

// PartyRankings fetches the party score-ranking feed.
func (c *Client) PartyRankings(ctx context.Context) ([]types.PartyRanking, error) {
	return fetchList[types.PartyRanking](ctx, c, "party_ranking_score", PathPartyRanking)
}

// PartyStats fetches the party stats-ranking feed.
func (c *Client) PartyStats(ctx context.Context) ([]types.PartyStatRecord, error) {
	return fetchList[types.PartyStatRecord](ctx, c, "party_ranking_stats", PathPartyStats)
}
