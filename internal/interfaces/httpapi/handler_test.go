package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/sources"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/usecase"
)

type fakeTransferSource struct {
	items []transfer.Transfer
}

func (s *fakeTransferSource) Name() string { return "Fake Wire" }

func (s *fakeTransferSource) FetchTransfers(context.Context) ([]transfer.Transfer, error) {
	return s.items, nil
}

type fakeNewsSource struct {
	items []news.Article
}

func (s *fakeNewsSource) Name() string { return "Fake News Desk" }

func (s *fakeNewsSource) FetchNews(context.Context) ([]news.Article, error) {
	return s.items, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	transferSrc := &fakeTransferSource{items: []transfer.Transfer{
		{ID: "1", PlayerName: "Viktor Gyokeres", FromClub: "Sporting CP", ToClub: "Arsenal", Fee: "£55m", Status: transfer.StatusConfirmed, Date: "2025-07-26", Source: "Fake Wire"},
		{ID: "2", PlayerName: "Alexander Isak", FromClub: "Newcastle", ToClub: "Liverpool", Status: transfer.StatusRumored, Date: "2025-08-10", Source: "Fake Wire"},
	}}
	newsSrc := &fakeNewsSource{items: []news.Article{
		{ID: "n1", Title: "Viktor Gyokeres completes Arsenal transfer", PublishedAt: "2025-07-26T10:00:00Z"},
		{ID: "n2", Title: "Arsenal announce shirt numbers", PublishedAt: "2025-07-27T10:00:00Z"},
	}}

	feedSvc := usecase.NewFeedService(usecase.FeedServiceConfig{
		Sources: []sources.TransferSource{transferSrc},
	})
	controller := usecase.NewFeedController(usecase.FeedControllerConfig{Aggregator: feedSvc})
	newsSvc := usecase.NewNewsService(usecase.NewsServiceConfig{
		Sources: []sources.NewsSource{newsSrc},
	})
	teamSvc := usecase.NewTeamService(controller, newsSvc, nil)
	adminSvc := usecase.NewAdminService(controller, newsSvc, nil, nil)

	handler := NewHandler(controller, newsSvc, teamSvc, adminSvc, nil)
	return NewRouter(handler, nil, RouterConfig{
		InternalJobToken: "sekret",
		MetricsRegistry:  prometheus.NewRegistry(),
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ListTransfers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transfers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["count"].(float64); got != 2 {
		t.Fatalf("expected 2 transfers, got %v", data["count"])
	}
}

func TestRouter_ListTransfersRejectsBadRefresh(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transfers?refresh=bananas", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_PlayerNews(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/players/Viktor%20Gyokeres/news", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	articles, _ := data["articles"].([]any)
	if len(articles) != 1 {
		t.Fatalf("expected 1 matching article, got %d", len(articles))
	}
	first, _ := articles[0].(map[string]any)
	if got, _ := first["id"].(string); got != "n1" {
		t.Fatalf("expected article n1, got %v", first["id"])
	}
}

func TestRouter_TeamFeedResolvesAlias(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/teams/Gunners/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if got, _ := data["team"].(string); got != "Arsenal" {
		t.Fatalf("expected team Arsenal, got %v", data["team"])
	}
	doneDeals, _ := data["doneDeals"].([]any)
	if len(doneDeals) != 1 {
		t.Fatalf("expected 1 done deal, got %d", len(doneDeals))
	}
	newsItems, _ := data["news"].([]any)
	if len(newsItems) != 2 {
		t.Fatalf("expected 2 team news items, got %d", len(newsItems))
	}
}

func TestRouter_CacheClearRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/cache/clear", strings.NewReader(`{"scope":"all"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_CacheClearWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/cache/clear", strings.NewReader(`{"scope":"all"}`))
	req.Header.Set("X-Internal-Job-Token", "sekret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	cleared, _ := data["cleared"].([]any)
	if len(cleared) == 0 {
		t.Fatalf("expected cleared targets, got %v", data)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
