package session

import (
	"errors"
	"testing"
	"time"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestIdleSupervisorFiresOnce(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	sup := NewIdleSupervisor(5 * time.Second)
	sup.SetClock(clock.now)

	calls := 0
	sup.SetCallback(func() error {
		calls++
		return nil
	})

	clock.t = clock.t.Add(4 * time.Second)
	if err := sup.Check(); err != nil || calls != 0 {
		t.Fatalf("check at T+4: err=%v calls=%d, want no action", err, calls)
	}

	clock.t = clock.t.Add(2 * time.Second)
	if err := sup.Check(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("check at T+6: calls=%d, want 1", calls)
	}

	if err := sup.Check(); err != nil || calls != 1 {
		t.Errorf("repeated check: calls=%d, want still 1", calls)
	}
}

func TestIdleSupervisorTouchResets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	sup := NewIdleSupervisor(5 * time.Second)
	sup.SetClock(clock.now)

	fired := false
	sup.SetCallback(func() error { fired = true; return nil })

	clock.t = clock.t.Add(4 * time.Second)
	sup.Touch()
	clock.t = clock.t.Add(4 * time.Second)
	_ = sup.Check()
	if fired {
		t.Error("callback fired although activity was recorded")
	}
}

func TestIdleSupervisorDefaultQuits(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	sup := NewIdleSupervisor(time.Second)
	sup.SetClock(clock.now)
	sup.SetCallback(nil)

	clock.t = clock.t.Add(time.Second)
	if err := sup.Check(); !mdwerror.IsQuit(err) {
		t.Errorf("Check() = %v, want quit", err)
	}
}

func TestIdleSupervisorDisabled(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	sup := NewIdleSupervisor(0)
	sup.SetClock(clock.now)
	sup.SetCallback(func() error { return errors.New("should not run") })

	clock.t = clock.t.Add(time.Hour)
	if err := sup.Check(); err != nil {
		t.Errorf("Check() with zero timeout = %v, want nil", err)
	}
}
