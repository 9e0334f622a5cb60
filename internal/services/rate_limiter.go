package services

import (
	"fmt"
	"sync"
	"time"
)

// SMSRateLimiter caps outbound SMS per phone number over a sliding window,
// so a flapping loss-limit check can't spam anyone.
type SMSRateLimiter struct {
	mu          sync.Mutex
	sent        map[string][]time.Time
	maxMessages int
	window      time.Duration
}

// NewSMSRateLimiter creates a limiter allowing maxMessages per window for
// each phone number.
func NewSMSRateLimiter(maxMessages int, window time.Duration) *SMSRateLimiter {
	return &SMSRateLimiter{
		sent:        make(map[string][]time.Time),
		maxMessages: maxMessages,
		window:      window,
	}
}

// Allow records an attempt for the phone number, returning an error when the
// window is full.
func (rl *SMSRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	recent := rl.prune(phoneNumber, now)
	if len(recent) >= rl.maxMessages {
		return fmt.Errorf("rate limit exceeded: maximum %d SMS per %v", rl.maxMessages, rl.window)
	}

	rl.sent[phoneNumber] = append(recent, now)
	return nil
}

// prune drops timestamps outside the window. Caller holds the lock.
func (rl *SMSRateLimiter) prune(phoneNumber string, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	recent := rl.sent[phoneNumber][:0]
	for _, t := range rl.sent[phoneNumber] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(rl.sent, phoneNumber)
		return nil
	}
	rl.sent[phoneNumber] = recent
	return recent
}

// Stats returns rate limiter statistics.
func (rl *SMSRateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"tracked_numbers": len(rl.sent),
		"max_messages":    rl.maxMessages,
		"window":          rl.window.String(),
	}
}

// Reset clears all tracked numbers.
func (rl *SMSRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.sent = make(map[string][]time.Time)
}
