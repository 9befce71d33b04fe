package pending

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/skillearn/skillearn-backend/pkg/enums"
	"github.com/skillearn/skillearn-backend/pkg/logger"
	"github.com/skillearn/skillearn-backend/pkg/metrics"
)

type stubCounter struct {
	counts map[enums.RequestKind]int64
	err    error
}

func (s *stubCounter) PendingCounts(ctx context.Context) (map[enums.RequestKind]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func TestService_ProcessSetsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	workflow := metrics.NewWorkflowMetrics(reg)
	counter := &stubCounter{counts: map[enums.RequestKind]int64{
		enums.RequestKindDeposit:        4,
		enums.RequestKindWithdrawal:     2,
		enums.RequestKindTaskCompletion: 0,
	}}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Requests: counter,
		Workflow: workflow,
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if err := svc.process(context.Background()); err != nil {
		t.Fatalf("process error: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got := gaugeValue(t, mfs, "wallet_requests_pending", "deposit"); got != 4 {
		t.Fatalf("expected deposit gauge 4, got %f", got)
	}
	if got := gaugeValue(t, mfs, "wallet_requests_pending", "withdrawal"); got != 2 {
		t.Fatalf("expected withdrawal gauge 2, got %f", got)
	}
}

func TestService_ProcessPropagatesError(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Requests: &stubCounter{err: errors.New("db down")},
		Workflow: metrics.NewWorkflowMetrics(reg),
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if err := svc.process(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func gaugeValue(t *testing.T, mfs []*dto.MetricFamily, name, kind string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "kind" && label.GetValue() == kind {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("gauge %s{kind=%q} not found", name, kind)
	return 0
}
