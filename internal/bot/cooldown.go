package bot

import (
	"sync"
	"time"

	"horse.fit/polly/internal/globaltime"
)

// CooldownPolicy carries the per-message throttle values read from the
// global configuration at the moment a trigger arrives.
type CooldownPolicy struct {
	Timeout  time.Duration
	Multiple bool
}

type messageState struct {
	waitUntil     time.Time
	allowMultiple bool
	triggers      map[string]struct{}
}

// CooldownTracker throttles repeat translation triggers per message and
// remembers which messages were already fully translated. All state is
// cleared wholesale by the periodic maintenance reset rather than per
// entry.
type CooldownTracker struct {
	mu         sync.Mutex
	state      map[string]*messageState
	translated map[string]struct{}
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		state:      make(map[string]*messageState),
		translated: make(map[string]struct{}),
	}
}

// Register decides whether a trigger may start a translation for the
// message. Checks run in order: a trigger already used for the message
// is rejected; a message tracked with multiples disallowed rejects any
// further trigger; a message still inside its cooldown window rejects.
// On acceptance the window re-arms from the policy's current timeout,
// while allow-multiple is seeded only when the message is first tracked.
func (t *CooldownTracker) Register(messageID, triggerID string, policy CooldownPolicy) bool {
	now := globaltime.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	state, tracked := t.state[messageID]
	if tracked {
		if _, used := state.triggers[triggerID]; used {
			return false
		}
		if !state.allowMultiple {
			return false
		}
		if now.Before(state.waitUntil) {
			return false
		}
	}

	if !tracked {
		state = &messageState{
			allowMultiple: policy.Multiple,
			triggers:      make(map[string]struct{}),
		}
		t.state[messageID] = state
	}
	state.waitUntil = now.Add(policy.Timeout)
	state.triggers[triggerID] = struct{}{}
	return true
}

// AllowsMultiple reports the multi-trigger policy a tracked message was
// seeded with. Untracked messages report true.
func (t *CooldownTracker) AllowsMultiple(messageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if state, ok := t.state[messageID]; ok {
		return state.allowMultiple
	}
	return true
}

// MarkTranslated flags a message as fully handled so text-flow handlers
// do not translate it twice.
func (t *CooldownTracker) MarkTranslated(messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.translated[messageID] = struct{}{}
}

func (t *CooldownTracker) IsTranslated(messageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.translated[messageID]
	return ok
}

// Reset drops every tracked message and translated marker, even entries
// whose individual wait window has not elapsed yet.
func (t *CooldownTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = make(map[string]*messageState)
	t.translated = make(map[string]struct{})
}

// Tracked reports how many messages currently hold cooldown state.
func (t *CooldownTracker) Tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.state)
}
