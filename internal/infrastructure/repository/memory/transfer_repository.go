package memory

import (
	"context"
	"sync"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

// TransferRepository holds the read-only seed dataset. It backs the last
// rung of the fallback chain and never fails.
type TransferRepository struct {
	mu    sync.RWMutex
	items []transfer.Transfer
}

func NewTransferRepository(items []transfer.Transfer) *TransferRepository {
	copied := make([]transfer.Transfer, len(items))
	copy(copied, items)

	return &TransferRepository{items: copied}
}

func (r *TransferRepository) ListAll(_ context.Context) ([]transfer.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]transfer.Transfer, len(r.items))
	copy(out, r.items)

	return out, nil
}
