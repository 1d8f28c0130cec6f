package bot

import (
	"testing"
	"time"

	"horse.fit/polly/internal/globaltime"
)

func TestRegisterRejectsDuplicateTrigger(t *testing.T) {
	tracker := NewCooldownTracker()
	policy := CooldownPolicy{Timeout: 0, Multiple: true}

	if !tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("expected first trigger to be accepted")
	}
	if tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("did not expect the same trigger to be accepted twice")
	}
}

func TestRegisterSingleTriggerMessage(t *testing.T) {
	tracker := NewCooldownTracker()
	policy := CooldownPolicy{Timeout: 0, Multiple: false}

	if !tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("expected first trigger to be accepted")
	}
	if tracker.Register("m1", "🇩🇪", policy) {
		t.Fatal("did not expect a second trigger when multiples are disallowed")
	}
	if !tracker.Register("m2", "🇩🇪", policy) {
		t.Fatal("expected a different message to be unaffected")
	}
}

func TestRegisterHonorsCooldownWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(start)
	defer globaltime.ResetTime()

	tracker := NewCooldownTracker()
	policy := CooldownPolicy{Timeout: 30 * time.Second, Multiple: true}

	if !tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("expected first trigger to be accepted")
	}
	if tracker.Register("m1", "🇩🇪", policy) {
		t.Fatal("did not expect a second trigger inside the cooldown window")
	}

	globaltime.SetMockTime(start.Add(31 * time.Second))
	if !tracker.Register("m1", "🇩🇪", policy) {
		t.Fatal("expected a second trigger after the window elapsed")
	}
}

func TestRegisterZeroTimeoutAllowsImmediateSecondTrigger(t *testing.T) {
	tracker := NewCooldownTracker()
	policy := CooldownPolicy{Timeout: 0, Multiple: true}

	if !tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("expected first trigger to be accepted")
	}
	if !tracker.Register("m1", "🇩🇪", policy) {
		t.Fatal("expected an immediate second trigger with zero timeout")
	}
}

func TestRegisterSeedsMultipleAtCreationOnly(t *testing.T) {
	tracker := NewCooldownTracker()

	if !tracker.Register("m1", "🇫🇷", CooldownPolicy{Multiple: false}) {
		t.Fatal("expected first trigger to be accepted")
	}
	// The message was created with multiples disallowed; a later policy
	// flip must not affect it.
	if tracker.Register("m1", "🇩🇪", CooldownPolicy{Multiple: true}) {
		t.Fatal("did not expect the seeded policy to change after creation")
	}
}

func TestResetClearsAllState(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(start)
	defer globaltime.ResetTime()

	tracker := NewCooldownTracker()
	policy := CooldownPolicy{Timeout: time.Hour, Multiple: false}

	if !tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("expected first trigger to be accepted")
	}
	tracker.MarkTranslated("m1")

	tracker.Reset()

	if tracker.IsTranslated("m1") {
		t.Fatal("expected translated markers to be cleared")
	}
	if tracker.Tracked() != 0 {
		t.Fatalf("expected no tracked messages, got %d", tracker.Tracked())
	}
	// Even the unexpired hour-long window is gone after a reset.
	if !tracker.Register("m1", "🇫🇷", policy) {
		t.Fatal("expected the message to be trackable again after reset")
	}
}
