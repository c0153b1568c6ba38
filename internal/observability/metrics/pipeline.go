package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/core/ports"
)

// PipelineMetrics observes the claim pipeline itself: decision outcomes,
// document categories, discrepancy counts, and model-call behavior.
type PipelineMetrics struct {
	claimsTotal      *prometheus.CounterVec
	claimDuration    prometheus.Histogram
	documentsTotal   *prometheus.CounterVec
	discrepancies    prometheus.Histogram
	llmCallsTotal    *prometheus.CounterVec
	llmCallDuration  *prometheus.HistogramVec
	missingDocuments prometheus.Histogram
}

func NewPipelineMetrics(service string, registry *prometheus.Registry) *PipelineMetrics {
	constLabels := prometheus.Labels{"service": service}

	claimsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "claimflow",
			Subsystem:   "claims",
			Name:        "decisions_total",
			Help:        "Total claim decisions by status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	claimDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "claimflow",
			Subsystem:   "claims",
			Name:        "processing_duration_seconds",
			Help:        "End-to-end claim processing duration in seconds.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			ConstLabels: constLabels,
		},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "claimflow",
			Subsystem:   "claims",
			Name:        "documents_total",
			Help:        "Total processed documents by category.",
			ConstLabels: constLabels,
		},
		[]string{"category"},
	)
	discrepancies := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "claimflow",
			Subsystem:   "claims",
			Name:        "discrepancies",
			Help:        "Distribution of discrepancy findings per claim.",
			Buckets:     []float64{0, 1, 2, 3, 5, 8},
			ConstLabels: constLabels,
		},
	)
	missingDocuments := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   "claimflow",
			Subsystem:   "claims",
			Name:        "missing_documents",
			Help:        "Distribution of missing required categories per claim.",
			Buckets:     []float64{0, 1, 2, 3},
			ConstLabels: constLabels,
		},
	)
	llmCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "claimflow",
			Subsystem:   "llm",
			Name:        "calls_total",
			Help:        "Total model calls by operation and outcome.",
			ConstLabels: constLabels,
		},
		[]string{"operation", "outcome"},
	)
	llmCallDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "claimflow",
			Subsystem:   "llm",
			Name:        "call_duration_seconds",
			Help:        "Model call duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	registry.MustRegister(
		claimsTotal,
		claimDuration,
		documentsTotal,
		discrepancies,
		missingDocuments,
		llmCallsTotal,
		llmCallDuration,
	)

	return &PipelineMetrics{
		claimsTotal:      claimsTotal,
		claimDuration:    claimDuration,
		documentsTotal:   documentsTotal,
		discrepancies:    discrepancies,
		missingDocuments: missingDocuments,
		llmCallsTotal:    llmCallsTotal,
		llmCallDuration:  llmCallDuration,
	}
}

// RecordLLMCall is shaped to plug into the OpenAI client's observer hook.
func (m *PipelineMetrics) RecordLLMCall(operation, outcome string, duration time.Duration) {
	m.llmCallsTotal.WithLabelValues(operation, outcome).Inc()
	m.llmCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// InstrumentProcessor decorates a ClaimProcessor with pipeline metrics so
// every inbound adapter (HTTP, MCP) is observed the same way.
func (m *PipelineMetrics) InstrumentProcessor(next ports.ClaimProcessor) ports.ClaimProcessor {
	return &instrumentedProcessor{metrics: m, next: next}
}

type instrumentedProcessor struct {
	metrics *PipelineMetrics
	next    ports.ClaimProcessor
}

func (p *instrumentedProcessor) ProcessClaim(ctx context.Context, files []domain.UploadedFile) (*domain.ClaimResponse, error) {
	start := time.Now()
	resp, err := p.next.ProcessClaim(ctx, files)
	if err != nil {
		return nil, err
	}

	p.metrics.claimDuration.Observe(time.Since(start).Seconds())
	p.metrics.claimsTotal.WithLabelValues(string(resp.Decision.Status)).Inc()
	p.metrics.discrepancies.Observe(float64(len(resp.Validation.Discrepancies)))
	p.metrics.missingDocuments.Observe(float64(len(resp.Validation.MissingDocuments)))
	for _, doc := range resp.Documents {
		p.metrics.documentsTotal.WithLabelValues(string(doc.DocType)).Inc()
	}
	return resp, nil
}
