package resilience

import "time"

// Config bounds one external model call. There is deliberately no retry
// policy: every call is a single attempt and the caller degrades gracefully
// on failure.
type Config struct {
	CallTimeout time.Duration

	RatePerSecond float64
	RateBurst     int

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		CallTimeout: 30 * time.Second,

		RatePerSecond: 5,
		RateBurst:     5,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.CallTimeout <= 0 {
		out.CallTimeout = def.CallTimeout
	}
	if out.RatePerSecond <= 0 {
		out.RatePerSecond = def.RatePerSecond
	}
	if out.RateBurst <= 0 {
		out.RateBurst = def.RateBurst
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}

	return out
}
