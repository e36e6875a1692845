package sources

import (
	"context"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

const seedSourceName = "Seed Dataset"

type seedRepository interface {
	ListAll(ctx context.Context) ([]transfer.Transfer, error)
}

// SeedSource exposes the static dataset through the TransferSource
// contract so the aggregator can treat it as a zero-cost adapter.
type SeedSource struct {
	repo seedRepository
}

func NewSeedSource(repo seedRepository) *SeedSource {
	return &SeedSource{repo: repo}
}

func (s *SeedSource) Name() string { return seedSourceName }

func (s *SeedSource) FetchTransfers(ctx context.Context) ([]transfer.Transfer, error) {
	return s.repo.ListAll(ctx)
}
