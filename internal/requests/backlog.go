package requests

import (
	"context"
	"fmt"

	"github.com/skillearn/skillearn-backend/pkg/enums"
)

// BacklogCounter exposes pending-queue depths without pulling in the full
// decision service; the worker only ever reads counts.
type BacklogCounter struct {
	repo Repository
}

func NewBacklogCounter(repo Repository) *BacklogCounter {
	return &BacklogCounter{repo: repo}
}

func (b *BacklogCounter) PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error) {
	if b == nil || b.repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	return b.repo.CountPendingByKind(ctx)
}
