package worker

import (
	"time"

	"shareit/internal/config"
)

// RetryPolicy controls how failed report rebuilds are retried.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// PolicyFromConfig derives the rebuild retry policy from the reports config.
// Unset or unparsable values fall back to defaults.
func PolicyFromConfig(cfg config.ReportsConfig) RetryPolicy {
	policy := RetryPolicy{
		MaxRetries:    cfg.MaxRetries,
		InitialDelay:  parseDelay(cfg.RetryDelay, 2*time.Second),
		MaxDelay:      parseDelay(cfg.RetryMaxDelay, time.Minute),
		BackoffFactor: 2,
	}
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = 5
	}
	return policy
}

func parseDelay(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// NextDelay returns the pause before the given attempt (1-based). Each attempt
// multiplies the previous delay by BackoffFactor, clamped to MaxDelay.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}
