package interp

import (
	"sync"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestGIL_EnsureRelease(t *testing.T) {
	ip := New()

	if ip.gil.held() {
		t.Fatal("lock held before Ensure")
	}

	state := ip.GILEnsure()
	if state != GILUnlocked {
		t.Errorf("first Ensure = %v, want GILUnlocked", state)
	}
	if !ip.gil.held() {
		t.Error("lock not held after Ensure")
	}

	ip.GILRelease(state)
	if ip.gil.held() {
		t.Error("lock still held after Release")
	}
}

func TestGIL_Reentrant(t *testing.T) {
	ip := New()

	outer := ip.GILEnsure()
	inner := ip.GILEnsure()
	if inner != GILLocked {
		t.Errorf("nested Ensure = %v, want GILLocked", inner)
	}
	if !ip.gil.held() {
		t.Error("lock not held while nested")
	}

	ip.GILRelease(inner)
	if !ip.gil.held() {
		t.Error("inner Release dropped the lock")
	}

	ip.GILRelease(outer)
	if ip.gil.held() {
		t.Error("lock still held after outer Release")
	}
}

func TestGIL_BlocksOtherGoroutines(t *testing.T) {
	ip := New()

	state := ip.GILEnsure()

	acquired := make(chan GILState)
	go func() {
		s := ip.GILEnsure()
		acquired <- s
		ip.GILRelease(s)
	}()

	select {
	case <-acquired:
		t.Fatal("second goroutine acquired the lock while held")
	case <-time.After(50 * time.Millisecond):
	}

	ip.GILRelease(state)

	select {
	case s := <-acquired:
		if s != GILUnlocked {
			t.Errorf("cross-goroutine Ensure = %v, want GILUnlocked", s)
		}
	case <-time.After(time.Second):
		t.Fatal("second goroutine never acquired the lock")
	}
}

func TestGIL_SerializesExecution(t *testing.T) {
	ip := New()
	if err := ip.Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer ip.Close()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 25; n++ {
				if err := ip.RunString("counter = (counter or 0) + 1"); err != nil {
					t.Errorf("run: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	state := ip.GILEnsure()
	got := lua.LVAsNumber(ip.State().GetGlobal("counter"))
	ip.GILRelease(state)

	if got != 200 {
		t.Errorf("counter = %v, want 200", got)
	}
}

func TestGIL_ReleaseByNonOwnerPanics(t *testing.T) {
	ip := New()
	state := ip.GILEnsure()
	defer ip.GILRelease(state)

	done := make(chan bool)
	go func() {
		defer func() {
			done <- recover() != nil
		}()
		ip.GILRelease(GILUnlocked)
	}()

	if panicked := <-done; !panicked {
		t.Error("Release by non-owner did not panic")
	}
}

func TestGIL_UnbalancedReleasePanics(t *testing.T) {
	ip := New()
	state := ip.GILEnsure()
	defer func() {
		if recover() == nil {
			t.Error("unbalanced nested Release did not panic")
		}
		ip.GILRelease(state)
	}()

	// No nested Ensure happened, so a GILLocked release is unbalanced.
	ip.GILRelease(GILLocked)
}
