// Package globaltime is the process-wide clock. Production code reads
// it like time.Now; tests pin it so cooldown and token-refresh deadline
// math stays deterministic.
package globaltime

import (
	"sync"
	"time"
)

var clock = struct {
	mu  sync.RWMutex
	now func() time.Time
}{now: time.Now}

func Now() time.Time {
	clock.mu.RLock()
	defer clock.mu.RUnlock()
	return clock.now()
}

// UTC is Now in UTC, for values that end up in storage or on the wire.
func UTC() time.Time {
	return Now().UTC()
}

// SetMockTime pins the clock to a fixed instant until ResetTime.
func SetMockTime(t time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = func() time.Time { return t }
}

// ResetTime restores the wall clock.
func ResetTime() {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = time.Now
}
