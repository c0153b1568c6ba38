package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

// Publisher emits one event per decided claim so downstream systems
// (audit, payout, dashboards) can react without polling. Publishing is best
// effort: the claim response never depends on it.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

func New(url, subject string) (*Publisher, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("claimflow"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type decisionEvent struct {
	ClaimID          string                `json:"claim_id"`
	Status           domain.DecisionStatus `json:"status"`
	Reason           string                `json:"reason"`
	MissingDocuments []domain.Category     `json:"missing_documents"`
	Discrepancies    int                   `json:"discrepancies"`
	DecidedAt        time.Time             `json:"decided_at"`
}

func (p *Publisher) PublishDecision(_ context.Context, claimID string, report domain.ValidationReport) error {
	payload, err := json.Marshal(decisionEvent{
		ClaimID:          claimID,
		Status:           report.Decision.Status,
		Reason:           report.Decision.Reason,
		MissingDocuments: report.Validation.MissingDocuments,
		Discrepancies:    len(report.Validation.Discrepancies),
		DecidedAt:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal decision event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}
