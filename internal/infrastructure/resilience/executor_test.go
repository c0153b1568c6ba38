package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		CallTimeout:             time.Second,
		RatePerSecond:           1000,
		RateBurst:               1000,
		BreakerEnabled:          true,
		BreakerMinRequests:      3,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func TestExecuteSingleAttempt(t *testing.T) {
	executor := NewExecutor(testConfig())
	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls += 1
		return errors.New("boom")
	}, nil)

	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, there must be no retries", calls)
	}
}

func TestExecuteOpensBreakerAfterFailures(t *testing.T) {
	executor := NewExecutor(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_ = executor.Execute(context.Background(), "op", func(context.Context) error {
			return boom
		}, nil)
	}

	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("callback must not run with an open circuit")
		return nil
	}, nil)
	if !IsCircuitOpen(err) {
		t.Fatalf("err = %v, want open circuit", err)
	}
}

func TestExecuteClassifierKeepsBreakerClosed(t *testing.T) {
	executor := NewExecutor(testConfig())
	benign := func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: false}
	}

	for i := 0; i < 10; i++ {
		_ = executor.Execute(context.Background(), "op", func(context.Context) error {
			return errors.New("not the upstream's fault")
		}, benign)
	}

	ran := false
	_ = executor.Execute(context.Background(), "op", func(context.Context) error {
		ran = true
		return nil
	}, benign)
	if !ran {
		t.Fatalf("breaker opened on failures the classifier excluded")
	}
}

func TestExecuteBreakersAreIndependentPerOperation(t *testing.T) {
	executor := NewExecutor(testConfig())
	for i := 0; i < 3; i++ {
		_ = executor.Execute(context.Background(), "broken", func(context.Context) error {
			return errors.New("boom")
		}, nil)
	}

	ran := false
	if err := executor.Execute(context.Background(), "healthy", func(context.Context) error {
		ran = true
		return nil
	}, nil); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ran {
		t.Fatalf("healthy operation must not share the broken breaker")
	}
}

func TestExecuteAppliesCallTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.CallTimeout = 10 * time.Millisecond
	executor := NewExecutor(cfg)

	err := executor.Execute(context.Background(), "slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestExecuteRespectsCanceledContext(t *testing.T) {
	executor := NewExecutor(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executor.Execute(ctx, "op", func(context.Context) error {
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
