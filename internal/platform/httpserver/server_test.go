package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	eventsv1 "atelier/contracts/events/v1"
	draftarc "atelier/contexts/observer-experience/draft-arc-service"
	draftentities "atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	observerdigest "atelier/contexts/observer-experience/observer-digest-service"
	digestentities "atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	observerengagement "atelier/contexts/observer-experience/observer-engagement-service"
	engagemententities "atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	predictionmarket "atelier/contexts/observer-experience/prediction-market"
	marketentities "atelier/contexts/observer-experience/prediction-market/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventsv1.Envelope
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, event eventsv1.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if subject == eventsv1.SubjectObserverFeed {
		p.events = append(p.events, event)
	}
	return nil
}

func (p *recordingPublisher) published() []eventsv1.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]eventsv1.Envelope(nil), p.events...)
}

type fixedArcs struct{}

func (fixedArcs) RecomputeDraftArc(_ context.Context, draftID string) (digestentities.ArcSnapshot, error) {
	return digestentities.ArcSnapshot{DraftID: draftID, State: "in_progress", Milestone: "1 open fix request"}, nil
}

type testServer struct {
	*Server
	publisher *recordingPublisher
	market    predictionmarket.Module
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	now := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)

	arc := draftarc.NewInMemoryModule([]draftentities.Draft{{
		DraftID: "draft-1", StudioID: "studio-1", Status: "draft", CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
	}}, nil)
	arc.Store.SetNow(now)

	digest := observerdigest.NewInMemoryModule(fixedArcs{}, nil, nil)
	digest.Store.SetDraft("draft-1", "studio-1")
	digest.Store.FollowDraft("obs-a", "draft-1")
	digest.Store.SetNow(now)

	market := predictionmarket.NewInMemoryModule(nil, nil)
	market.Store.SetNow(now)
	market.Store.SetPullRequest(marketentities.PullRequestRef{PullRequestID: "pr-1", DraftID: "draft-1", Status: marketentities.PullRequestStatusPending})

	engagement := observerengagement.NewInMemoryModule(nil)
	engagement.Store.SetNow(now)
	engagement.Store.SetDraft(engagemententities.DraftRef{DraftID: "draft-1", StudioID: "studio-1", Status: "draft"}, 0)

	publisher := &recordingPublisher{}
	server := New(Modules{DraftArc: arc, Digest: digest, Market: market, Engagement: engagement}, publisher, nil, "")
	return testServer{Server: server, publisher: publisher, market: market}
}

func (s testServer) do(t *testing.T, method string, target string, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestObserverRoutesRequireUser(t *testing.T) {
	server := newTestServer(t)
	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/api/v1/observers/me/watchlist"},
		{http.MethodGet, "/api/v1/observers/me/digest"},
		{http.MethodPost, "/api/v1/pull-requests/pr-1/predictions"},
		{http.MethodPost, "/api/v1/drafts/draft-1/follow"},
		{http.MethodGet, "/api/v1/observers/me/prediction-market"},
		{http.MethodPost, "/api/v1/pull-requests/pr-1/predictions/resolve"},
	} {
		rr := server.do(t, route.method, route.target, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, route.target)
		assert.Equal(t, "MISSING_USER", decodeError(t, rr).Code)
	}
}

func TestResolvePredictionsRouteWithUserReachesMarket(t *testing.T) {
	server := newTestServer(t)

	rr := server.do(t, http.MethodPost, "/api/v1/pull-requests/pr-1/predictions/resolve", "obs-a", "")
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
	assert.Equal(t, "PR_NOT_DECIDED", decodeError(t, rr).Code)
}

func TestSubmitPredictionRoutePublishesFeed(t *testing.T) {
	server := newTestServer(t)

	rr := server.do(t, http.MethodPost, "/api/v1/pull-requests/pr-1/predictions", "obs-a", `{"predicted_outcome":"merge","stake_points":50}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = server.do(t, http.MethodPost, "/api/v1/pull-requests/pr-1/predictions", "obs-a", `{"predicted_outcome":"merge","stake_points":50}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	events := server.publisher.published()
	require.Len(t, events, 2)
	assert.Equal(t, "prediction_submitted", events[0].EventType)
	assert.Equal(t, "pr-1", events[0].PartitionKey)
	assert.Equal(t, "data.pull_request_id", events[0].PartitionKeyPath)
	assert.NotEmpty(t, events[0].EventID)

	rr = server.do(t, http.MethodGet, "/api/v1/pull-requests/pr-1/predictions/summary", "obs-a", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, "pending", summary["pull_request_status"])
}

func TestSubmitPredictionRouteMapsFailures(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name   string
		pr     string
		body   string
		status int
		code   string
	}{
		{name: "malformed json", pr: "pr-1", body: `{`, status: http.StatusBadRequest, code: "INVALID_JSON"},
		{name: "string stake", pr: "pr-1", body: `{"predicted_outcome":"merge","stake_points":"ten"}`, status: http.StatusBadRequest, code: "PREDICTION_STAKE_INVALID"},
		{name: "fractional stake", pr: "pr-1", body: `{"predicted_outcome":"merge","stake_points":10.5}`, status: http.StatusBadRequest, code: "PREDICTION_STAKE_INVALID"},
		{name: "decimal form of integral stake", pr: "pr-1", body: `{"predicted_outcome":"merge","stake_points":5.0}`, status: http.StatusBadRequest, code: "PREDICTION_STAKE_INVALID"},
		{name: "exponent stake", pr: "pr-1", body: `{"predicted_outcome":"merge","stake_points":1e1}`, status: http.StatusBadRequest, code: "PREDICTION_STAKE_INVALID"},
		{name: "overflowing stake", pr: "pr-1", body: `{"predicted_outcome":"merge","stake_points":99999999999999999999}`, status: http.StatusBadRequest, code: "PREDICTION_STAKE_INVALID"},
		{name: "ceiling", pr: "pr-1", body: `{"predicted_outcome":"merge","stake_points":200}`, status: http.StatusBadRequest, code: "PREDICTION_STAKE_LIMIT_EXCEEDED"},
		{name: "unknown pr", pr: "pr-404", body: `{"predicted_outcome":"merge","stake_points":20}`, status: http.StatusNotFound, code: "PR_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := server.do(t, http.MethodPost, "/api/v1/pull-requests/"+tc.pr+"/predictions", "obs-a", tc.body)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.code, decodeError(t, rr).Code)
		})
	}
	assert.Empty(t, server.publisher.published())
}

func TestDailyCapAnswersTooManyRequests(t *testing.T) {
	server := newTestServer(t)
	for i := 0; i < 9; i++ {
		id := "cap-" + string(rune('a'+i))
		server.market.Store.SetPullRequest(marketentities.PullRequestRef{PullRequestID: id, Status: marketentities.PullRequestStatusPending})
	}
	for i := 0; i < 8; i++ {
		rr := server.do(t, http.MethodPost, "/api/v1/pull-requests/cap-"+string(rune('a'+i))+"/predictions", "obs-a", `{"predicted_outcome":"reject","stake_points":120}`)
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	rr := server.do(t, http.MethodPost, "/api/v1/pull-requests/cap-i/predictions", "obs-a", `{"predicted_outcome":"reject","stake_points":120}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "PREDICTION_DAILY_STAKE_CAP_REACHED", decodeError(t, rr).Code)
}

func TestRecordDraftEventRouteAndDigest(t *testing.T) {
	server := newTestServer(t)

	rr := server.do(t, http.MethodPost, "/api/v1/drafts/draft-1/events", "", `{"event_type":"fix_request"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	events := server.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "draft_event_recorded", events[0].EventType)
	assert.Equal(t, "draft-1", events[0].PartitionKey)

	rr = server.do(t, http.MethodGet, "/api/v1/observers/me/digest?unseen_only=true&limit=5", "obs-a", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Items []struct {
			EntryID string `json:"entry_id"`
			DraftID string `json:"draft_id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "draft-1", list.Items[0].DraftID)

	rr = server.do(t, http.MethodPost, "/api/v1/observers/me/digest/"+list.Items[0].EntryID+"/seen", "obs-a", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = server.do(t, http.MethodGet, "/api/v1/observers/me/digest?unseen_only=maybe", "obs-a", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_QUERY", decodeError(t, rr).Code)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	server := newTestServer(t)
	server.publisher.err = errors.New("broker down")

	rr := server.do(t, http.MethodPost, "/api/v1/pull-requests/pr-1/predictions", "obs-a", `{"predicted_outcome":"reject","stake_points":10}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestEngagementRoutes(t *testing.T) {
	server := newTestServer(t)

	rr := server.do(t, http.MethodPost, "/api/v1/drafts/draft-1/follow", "obs-b", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = server.do(t, http.MethodPost, "/api/v1/drafts/draft-404/follow", "obs-b", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "DRAFT_NOT_FOUND", decodeError(t, rr).Code)

	rr = server.do(t, http.MethodGet, "/api/v1/observers/me/watchlist", "obs-b", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"draft_id":"draft-1"`)

	rr = server.do(t, http.MethodPost, "/api/v1/drafts/draft-1/save", "obs-b", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"is_saved":true`)

	rr = server.do(t, http.MethodDelete, "/api/v1/drafts/draft-1/follow", "obs-b", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"removed":true`)
}

func TestDraftArcRoute(t *testing.T) {
	server := newTestServer(t)

	rr := server.do(t, http.MethodGet, "/api/v1/drafts/draft-1/arc", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"recap_24h"`)

	rr = server.do(t, http.MethodGet, "/api/v1/drafts/missing/arc", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSwaggerDocIsServed(t *testing.T) {
	server := newTestServer(t)
	rr := server.do(t, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/v1/pull-requests/{pr_id}/predictions")
}
