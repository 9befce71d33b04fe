package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/logger"
	"github.com/skillearn/skillearn-backend/pkg/metrics"
)

const defaultInterval = 30 * time.Second

type pendingCounter interface {
	PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error)
}

// Service periodically surfaces the pending-request backlog per kind so
// operator dashboards see queue depth without polling the API.
type Service struct {
	logg     *logger.Logger
	requests pendingCounter
	workflow *metrics.WorkflowMetrics
	interval time.Duration
}

type ServiceParams struct {
	Logger   *logger.Logger
	Requests pendingCounter
	Workflow *metrics.WorkflowMetrics
	Interval time.Duration
}

// NewService builds the pending backlog poller.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("requests service required")
	}
	if params.Workflow == nil {
		return nil, fmt.Errorf("workflow metrics required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		requests: params.Requests,
		workflow: params.Workflow,
		interval: interval,
	}, nil
}

// Run executes the poller loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.process(ctx); err != nil {
		s.logg.Error(ctx, "pending backlog poll failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "pending backlog poller context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.process(ctx); err != nil {
				s.logg.Error(ctx, "pending backlog poll failed", err)
			}
		}
	}
}

func (s *Service) process(ctx context.Context) error {
	counts, err := s.requests.PendingCounts(ctx)
	if err != nil {
		return fmt.Errorf("counting pending requests: %w", err)
	}
	for kind, count := range counts {
		s.workflow.SetPending(string(kind), count)
	}
	return nil
}
