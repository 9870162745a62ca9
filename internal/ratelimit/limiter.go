// Package ratelimit implements per-client request throttling with
// sliding windows and abuse bans.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// PerMinuteLimit is the request allowance per client per minute.
	PerMinuteLimit = 60
	// PerHourLimit is the request allowance per client per hour.
	PerHourLimit = 500
	// BanThresholdPerHour is the attempt count (allowed or not) in one
	// hour that triggers a ban.
	BanThresholdPerHour = 1000
	// BanDuration is how long an abusive client stays banned.
	BanDuration = 3600 * time.Second

	minuteWindow = time.Minute
	hourWindow   = time.Hour
)

// Decision is the outcome of one rate check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Reason is set on denial: "minute_limit", "hour_limit" or "banned".
	Reason string
	// RetryAfter is how long the client should wait before retrying.
	RetryAfter time.Duration
}

// Denial reasons.
const (
	ReasonMinuteLimit = "minute_limit"
	ReasonHourLimit   = "hour_limit"
	ReasonBanned      = "banned"
)

type clientState struct {
	// attempts holds the timestamps of every check in the last hour,
	// oldest first. Both allowed and denied checks count toward the
	// ban threshold; only the sliding-window counts use them for
	// allowance decisions too.
	attempts []time.Time
	// bannedUntil is zero unless the client is banned.
	bannedUntil time.Time
}

// Limiter throttles requests per client key using sliding one-minute
// and one-hour windows, and bans clients that keep hammering past the
// hourly allowance.
//
// State is pruned lazily: a client's window is trimmed on each check,
// and idle clients are dropped by Prune. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientState
}

// NewLimiter creates an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		clients: make(map[string]*clientState),
	}
}

// Check records an attempt for the client and decides whether the
// request may proceed.
//
// Rules, in order:
//   - A banned client is denied with ReasonBanned until the ban lapses.
//   - More than PerMinuteLimit attempts in the last minute denies with
//     ReasonMinuteLimit.
//   - More than PerHourLimit attempts in the last hour denies with
//     ReasonHourLimit.
//   - Regardless of outcome the attempt is recorded; a client whose
//     hourly attempts exceed BanThresholdPerHour is banned for
//     BanDuration.
func (l *Limiter) Check(clientKey string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.clients[clientKey]
	if !ok {
		st = &clientState{}
		l.clients[clientKey] = st
	}

	if now.Before(st.bannedUntil) {
		return Decision{Allowed: false, Reason: ReasonBanned, RetryAfter: st.bannedUntil.Sub(now)}
	}

	st.prune(now)

	decision := Decision{Allowed: true}
	minuteCount := st.countSince(now.Add(-minuteWindow))
	hourCount := len(st.attempts)

	switch {
	case minuteCount >= PerMinuteLimit:
		decision = Decision{
			Allowed:    false,
			Reason:     ReasonMinuteLimit,
			RetryAfter: st.retryAfter(now, minuteWindow),
		}
	case hourCount >= PerHourLimit:
		decision = Decision{
			Allowed:    false,
			Reason:     ReasonHourLimit,
			RetryAfter: st.retryAfter(now, hourWindow),
		}
	}

	st.attempts = append(st.attempts, now)

	if len(st.attempts) > BanThresholdPerHour {
		st.bannedUntil = now.Add(BanDuration)
		st.attempts = nil
		return Decision{Allowed: false, Reason: ReasonBanned, RetryAfter: BanDuration}
	}

	return decision
}

// Prune drops clients with no attempts in the last hour and no active
// ban. Called periodically so one-off clients do not accumulate.
func (l *Limiter) Prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var dropped int
	for key, st := range l.clients {
		st.prune(now)
		if len(st.attempts) == 0 && !now.Before(st.bannedUntil) {
			delete(l.clients, key)
			dropped++
		}
	}
	return dropped
}

// ClientCount returns the number of tracked clients.
func (l *Limiter) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// prune trims attempts older than the hour window.
func (st *clientState) prune(now time.Time) {
	cutoff := now.Add(-hourWindow)
	i := 0
	for i < len(st.attempts) && !st.attempts[i].After(cutoff) {
		i++
	}
	if i > 0 {
		st.attempts = append(st.attempts[:0], st.attempts[i:]...)
	}
}

// countSince counts attempts at or after the cutoff.
func (st *clientState) countSince(cutoff time.Time) int {
	// attempts are ordered; scan from the tail.
	count := 0
	for i := len(st.attempts) - 1; i >= 0; i-- {
		if st.attempts[i].Before(cutoff) {
			break
		}
		count++
	}
	return count
}

// retryAfter reports when the oldest attempt inside the window leaves
// it, freeing a slot for the client.
func (st *clientState) retryAfter(now time.Time, window time.Duration) time.Duration {
	cutoff := now.Add(-window)
	for _, at := range st.attempts {
		if !at.Before(cutoff) {
			free := at.Add(window).Sub(now)
			if free < 0 {
				return 0
			}
			return free
		}
	}
	return window
}
