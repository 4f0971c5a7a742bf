package api

import (
	"testing"
	"time"
)

func TestConfirmGuard_TwoStep(t *testing.T) {
	now := time.Now()
	g := NewConfirmGuard()
	g.now = func() time.Time { return now }

	if g.Confirm("user-1", "plan-1") {
		t.Fatal("first call should arm, not confirm")
	}

	now = now.Add(2 * time.Second)
	if !g.Confirm("user-1", "plan-1") {
		t.Fatal("second call within the window should confirm")
	}

	// Confirming consumes the armed entry.
	if g.Confirm("user-1", "plan-1") {
		t.Fatal("third call should start a fresh window")
	}
}

func TestConfirmGuard_WindowExpires(t *testing.T) {
	now := time.Now()
	g := NewConfirmGuard()
	g.now = func() time.Time { return now }

	if g.Confirm("user-1", "plan-1") {
		t.Fatal("first call should arm, not confirm")
	}

	now = now.Add(ConfirmWindow + time.Millisecond)
	if g.Confirm("user-1", "plan-1") {
		t.Fatal("call after the window should re-arm, not confirm")
	}
	now = now.Add(time.Second)
	if !g.Confirm("user-1", "plan-1") {
		t.Fatal("follow-up within the re-armed window should confirm")
	}
}

func TestConfirmGuard_KeysAreScoped(t *testing.T) {
	now := time.Now()
	g := NewConfirmGuard()
	g.now = func() time.Time { return now }

	g.Confirm("user-1", "plan-1")

	if g.Confirm("user-2", "plan-1") {
		t.Error("other user's arm must not confirm this user's delete")
	}
	if g.Confirm("user-1", "plan-2") {
		t.Error("other plan's arm must not confirm this plan's delete")
	}
}
