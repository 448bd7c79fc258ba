// README: Manual clock behavior tests.
package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestManualFiresInTimestampOrder(t *testing.T) {
	c := NewManual(epoch)
	var got []string

	c.AfterFunc(3*time.Second, func() { got = append(got, "c") })
	c.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })

	c.Advance(5 * time.Second)

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("fired %d timers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fire order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestManualTieBreaksByScheduleOrder(t *testing.T) {
	c := NewManual(epoch)
	var got []string
	c.AfterFunc(time.Second, func() { got = append(got, "first") })
	c.AfterFunc(time.Second, func() { got = append(got, "second") })

	c.Advance(time.Second)

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("fire order = %v", got)
	}
}

func TestManualStoppedTimerDoesNotFire(t *testing.T) {
	c := NewManual(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop() = false before firing")
	}
	c.Advance(2 * time.Second)

	if fired {
		t.Error("stopped timer fired")
	}
	if timer.Stop() {
		t.Error("second Stop() = true")
	}
}

func TestManualNestedScheduling(t *testing.T) {
	c := NewManual(epoch)
	var got []string
	c.AfterFunc(time.Second, func() {
		got = append(got, "outer")
		c.AfterFunc(time.Second, func() { got = append(got, "inner") })
	})

	c.Advance(3 * time.Second)

	if len(got) != 2 || got[1] != "inner" {
		t.Fatalf("nested timer not fired, got %v", got)
	}
	if want := epoch.Add(3 * time.Second); !c.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", c.Now(), want)
	}
}

func TestManualAdvanceMovesTimeToDueInstant(t *testing.T) {
	c := NewManual(epoch)
	var at time.Time
	c.AfterFunc(2*time.Second, func() { at = c.Now() })

	c.Advance(10 * time.Second)

	if want := epoch.Add(2 * time.Second); !at.Equal(want) {
		t.Errorf("callback saw Now() = %v, want %v", at, want)
	}
}
