// Package sources contains one adapter per external feed. Adapters are
// independent: each maps its upstream's shape into the canonical types,
// caches the mapped result for a few minutes, and soft-fails so the
// aggregator can settle without it.
package sources

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

// ErrFeedTransient marks failures worth retrying (network, timeout,
// 5xx). Anything else is a schema or programming problem.
var ErrFeedTransient = crerr.New("feed transient failure")

// TransferSource is a feed that yields canonical transfer records.
// A failing source returns (nil, err); it never panics past its boundary
// and the caller treats the error exactly like an empty result.
type TransferSource interface {
	Name() string
	FetchTransfers(ctx context.Context) ([]transfer.Transfer, error)
}

// NewsSource is a feed that yields news articles.
type NewsSource interface {
	Name() string
	FetchNews(ctx context.Context) ([]news.Article, error)
}
