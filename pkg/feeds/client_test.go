package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, Timeout: 2 * time.Second, MaxRetries: 2})
}

func TestMemberPerformances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathMemberPerformance, r.URL.Path)
		w.Write([]byte(`[
			{"lawmaker_name":"김철수","lawmaker_id":"L001","attendance_score":92.5,"total_score":81.2},
			{"lawmaker_name":"이영희","lawmaker_id":"L002","attendance_score":88.0,"total_score":77.9}
		]`))
	}))
	defer srv.Close()

	recs, err := newTestClient(srv.URL).MemberPerformances(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "김철수", recs[0].LawmakerName)
	assert.Equal(t, 92.5, recs[0].AttendanceScore)
}

func TestMemberRankingsFeedFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"HG_NM":"김철수","POLY_NM":"더불어민주당","overall_rank":3,"total_score":81.2}]`))
	}))
	defer srv.Close()

	recs, err := newTestClient(srv.URL).MemberRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "김철수", recs[0].Name)
	assert.Equal(t, "더불어민주당", recs[0].Party)
	assert.Equal(t, 3, recs[0].OverallRank)
}

func TestDecodeSkipsNullAndMalformedRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name":"김철수","party":"A당"},
			null,
			"not an object",
			{"name":"이영희","party":"B당"}
		]`))
	}))
	defer srv.Close()

	recs, err := newTestClient(srv.URL).MemberBasics(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "이영희", recs[1].Name)
}

func TestDecodeDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"member_name":"김철수","photo":"https://img/1.jpg"}]}`))
	}))
	defer srv.Close()

	recs, err := newTestClient(srv.URL).MemberPhotos(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "https://img/1.jpg", recs[0].URL)
}

func TestDecodeNonListBody(t *testing.T) {
	body := []byte(`{"error":"maintenance"}`)
	recs := decodeRecords[types.MemberBasic]("members", body)
	assert.Empty(t, recs)
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"party":"더불어민주당","avg_attendance":88.1}]`))
	}))
	defer srv.Close()

	recs, err := newTestClient(srv.URL).PartyPerformances(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).MemberBillCounts(context.Background())
	assert.Error(t, err)
}

func TestFetchHonorsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).CommitteeMembers(ctx)
	assert.Error(t, err)
}
