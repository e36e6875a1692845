package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

func TestTransferAPI_MapsStructuredFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transfers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transfers":[
			{"id":"881","player_name":"Kepa Arrizabalaga","from_club":"Chelsea","to_club":"Arsenal","fee":"£5m","category":"Done Deal","published_at":"2025-07-04T09:00:00Z"},
			{"id":"882","player_name":"Eberechi Eze","to_club":"Tottenham","category":"Heavily Linked"},
			{"id":"883","from_club":"Nowhere FC","category":"Rumours"},
			{"player_name":"No Identifier","category":"Rumours"}
		]}`))
	}))
	defer server.Close()

	adapter := NewTransferAPI(TransferAPIConfig{BaseURL: server.URL, Timeout: time.Second})
	fixedNow := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	adapter.now = func() time.Time { return fixedNow }

	got, err := adapter.FetchTransfers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	kepa := got[0]
	assert.Equal(t, "transferapi-881", kepa.ID)
	assert.Equal(t, "Kepa Arrizabalaga", kepa.PlayerName)
	assert.Equal(t, "Chelsea", kepa.FromClub)
	assert.Equal(t, "Arsenal", kepa.ToClub)
	assert.Equal(t, transfer.StatusConfirmed, kepa.Status)
	assert.Equal(t, transferAPIName, kepa.Source)

	eze := got[1]
	assert.Equal(t, transfer.UnknownClub, eze.FromClub)
	assert.Equal(t, transfer.StatusRumored, eze.Status)
	assert.Equal(t, fixedNow.Format(time.RFC3339), eze.Date)
}

func TestTransferAPI_CachesUpstreamResponse(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"transfers":[{"id":"1","player_name":"David Raya","category":"Done Deal","published_at":"2025-07-01T00:00:00Z"}]}`))
	}))
	defer server.Close()

	adapter := NewTransferAPI(TransferAPIConfig{BaseURL: server.URL, Timeout: time.Second, CacheTTL: time.Minute})

	for i := 0; i < 3; i++ {
		got, err := adapter.FetchTransfers(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
	}

	assert.Equal(t, int32(1), hits.Load())
}

func TestTransferAPI_ClearCacheForcesRefetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"transfers":[]}`))
	}))
	defer server.Close()

	adapter := NewTransferAPI(TransferAPIConfig{BaseURL: server.URL, Timeout: time.Second, CacheTTL: time.Minute})
	ctx := context.Background()

	_, err := adapter.FetchTransfers(ctx)
	require.NoError(t, err)

	adapter.ClearCache(ctx)

	_, err = adapter.FetchTransfers(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestTransferAPI_UpstreamFailureIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := NewTransferAPI(TransferAPIConfig{BaseURL: server.URL, Timeout: time.Second})

	got, err := adapter.FetchTransfers(context.Background())
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestTransferAPI_BadPayloadIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer server.Close()

	adapter := NewTransferAPI(TransferAPIConfig{BaseURL: server.URL, Timeout: time.Second})

	got, err := adapter.FetchTransfers(context.Background())
	assert.Error(t, err)
	assert.Empty(t, got)
}
