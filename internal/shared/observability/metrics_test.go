package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestFilesProcessedByResult(t *testing.T) {
	before := counterValue(t, FilesProcessed.WithLabelValues(ResultChanged))
	FilesProcessed.WithLabelValues(ResultChanged).Inc()
	if got := counterValue(t, FilesProcessed.WithLabelValues(ResultChanged)); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}

func TestInitTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "mjson5fmt")
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}
	_, span := Tracer.Start(context.Background(), "test")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}
