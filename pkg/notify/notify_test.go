package notify

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCenter_ErrorAndActive(t *testing.T) {
	c := NewCenter(time.Minute)

	toast := c.Error("Something went wrong")
	if toast.ID == "" {
		t.Error("toast ID should be set")
	}
	if toast.Level != LevelError {
		t.Errorf("Level = %q, want %q", toast.Level, LevelError)
	}

	active := c.Active()
	if len(active) != 1 || active[0].Message != "Something went wrong" {
		t.Errorf("Active() = %+v, want the raised toast", active)
	}
}

func TestCenter_Expiry(t *testing.T) {
	c := NewCenter(time.Second)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Info("first")
	now = now.Add(500 * time.Millisecond)
	c.Info("second")

	now = now.Add(600 * time.Millisecond)
	active := c.Active()
	if len(active) != 1 || active[0].Message != "second" {
		t.Errorf("Active() = %+v, want only the second toast", active)
	}

	now = now.Add(time.Second)
	if active := c.Active(); len(active) != 0 {
		t.Errorf("Active() = %+v, want none", active)
	}
}

func TestCenter_DefaultLifetime(t *testing.T) {
	c := NewCenter(0)
	if c.lifetime != DefaultLifetime {
		t.Errorf("lifetime = %v, want %v", c.lifetime, DefaultLifetime)
	}
}

func TestCenter_Bounded(t *testing.T) {
	c := NewCenter(time.Minute)
	for i := 0; i < maxToasts+5; i++ {
		c.Info(fmt.Sprintf("toast %d", i))
	}

	active := c.Active()
	if len(active) != maxToasts {
		t.Fatalf("len(Active()) = %d, want %d", len(active), maxToasts)
	}
	if active[0].Message != "toast 5" {
		t.Errorf("oldest toast = %q, want toast 5", active[0].Message)
	}
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter(time.Minute)
	toast := c.Error("dismiss me")

	if !c.Dismiss(toast.ID) {
		t.Error("Dismiss() = false, want true")
	}
	if c.Dismiss(toast.ID) {
		t.Error("second Dismiss() = true, want false")
	}
	if len(c.Active()) != 0 {
		t.Error("toast still active after Dismiss")
	}
}

func TestCenter_Concurrent(t *testing.T) {
	c := NewCenter(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Error("concurrent")
			c.Active()
		}()
	}
	wg.Wait()

	if n := len(c.Active()); n != 10 {
		t.Errorf("len(Active()) = %d, want 10", n)
	}
}
