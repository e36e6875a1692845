package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

func TestArticleFeed_PromotesConfidentParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[
			{"guid":"a1","headline":"Arsenal sign Noni Madueke from Chelsea for £52m","published_at":"2025-07-18T09:30:00Z"},
			{"guid":"a2","headline":"Five tactical takeaways from the weekend"},
			{"guid":"a3","headline":"the latest transfer gossip roundup from around the league"},
			{"guid":"a4","headline":"Eberechi Eze linked with move to Tottenham","tag":"Rumours","excerpt":"<p>Crystal Palace <b>midfielder</b> wanted.</p>"}
		]}`))
	}))
	defer server.Close()

	adapter := NewArticleFeed(ArticleFeedConfig{BaseURL: server.URL, Timeout: time.Second})

	got, err := adapter.FetchTransfers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	madueke := got[0]
	assert.Equal(t, "articles-a1", madueke.ID)
	assert.Equal(t, "Noni Madueke", madueke.PlayerName)
	assert.Equal(t, "Chelsea", madueke.FromClub)
	assert.Equal(t, "Arsenal", madueke.ToClub)
	assert.Equal(t, "£52m", madueke.Fee)
	assert.Equal(t, transfer.StatusConfirmed, madueke.Status)
	assert.Equal(t, "2025-07-18T09:30:00Z", madueke.Date)
	assert.Equal(t, articleFeedName, madueke.Source)

	eze := got[1]
	assert.Equal(t, "Eberechi Eze", eze.PlayerName)
	assert.Equal(t, "Tottenham", eze.ToClub)
	assert.Equal(t, transfer.UnknownClub, eze.FromClub)
	assert.Equal(t, transfer.StatusRumored, eze.Status)
}

func TestArticleFeed_HeadlineWithoutNameYieldsNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[
			{"guid":"x1","headline":"transfer rumours swirl around the league once again"}
		]}`))
	}))
	defer server.Close()

	adapter := NewArticleFeed(ArticleFeedConfig{BaseURL: server.URL, Timeout: time.Second})

	got, err := adapter.FetchTransfers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPassesAllowList(t *testing.T) {
	assert.True(t, passesAllowList("Striker completes medical ahead of move"))
	assert.True(t, passesAllowList("EXCLUSIVE: club agree £40m fee"))
	assert.False(t, passesAllowList("Match report: dull goalless draw"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "Crystal Palace midfielder wanted.", stripHTML("<p>Crystal Palace <b>midfielder</b> wanted.</p>"))
	assert.Equal(t, "plain text stays", stripHTML("  plain text stays "))
	assert.Equal(t, "", stripHTML("   "))
}
