package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

type processorStub struct {
	resp *domain.ClaimResponse
}

func (p *processorStub) ProcessClaim(_ context.Context, _ []domain.UploadedFile) (*domain.ClaimResponse, error) {
	return p.resp, nil
}

func TestMiddlewareCountsRequests(t *testing.T) {
	m, _ := NewHTTPServerMetrics("test-api")

	handler := m.Middleware("test-api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/claims/process", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.requestTotal.WithLabelValues("test-api", "POST", "/v1/claims/process", "400"))
	if count != 1 {
		t.Fatalf("expected 1 request counted, got %v", count)
	}
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m, _ := NewHTTPServerMetrics("test-api")

	handler := m.Middleware("test-api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "claimflow_http_requests_total") {
		t.Fatalf("expected request counter in exposition, got: %s", rec.Body.String())
	}
}

func TestInstrumentProcessorRecordsDecision(t *testing.T) {
	_, registry := NewHTTPServerMetrics("test-api")
	pm := NewPipelineMetrics("test-api", registry)

	stub := &processorStub{resp: &domain.ClaimResponse{
		Documents: []domain.ClaimDocument{
			{Filename: "bill.pdf", DocType: domain.CategoryBill},
			{Filename: "id.pdf", DocType: domain.CategoryIDCard},
		},
		Validation: domain.ValidationResult{
			MissingDocuments: []domain.Category{domain.CategoryDischargeSummary},
			Discrepancies:    []string{"Bill total_amount must be positive."},
		},
		Decision: domain.ClaimDecision{Status: domain.StatusManualReview},
	}}

	processor := pm.InstrumentProcessor(stub)
	if _, err := processor.ProcessClaim(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decided := testutil.ToFloat64(pm.claimsTotal.WithLabelValues("manual_review"))
	if decided != 1 {
		t.Fatalf("expected 1 manual_review decision, got %v", decided)
	}
	bills := testutil.ToFloat64(pm.documentsTotal.WithLabelValues("bill"))
	if bills != 1 {
		t.Fatalf("expected 1 bill document, got %v", bills)
	}
}

func TestRecordLLMCallCountsByOutcome(t *testing.T) {
	_, registry := NewHTTPServerMetrics("test-api")
	pm := NewPipelineMetrics("test-api", registry)

	pm.RecordLLMCall("chat_completion", "ok", 0)
	pm.RecordLLMCall("chat_completion", "malformed", 0)
	pm.RecordLLMCall("chat_completion", "ok", 0)

	ok := testutil.ToFloat64(pm.llmCallsTotal.WithLabelValues("chat_completion", "ok"))
	if ok != 2 {
		t.Fatalf("expected 2 ok calls, got %v", ok)
	}
}
