package crawler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegistry_TryAdmit(t *testing.T) {
	t.Parallel()

	r := NewRegistry(10, nil)

	if got := r.TryAdmit("https://example.com/"); got != Admitted {
		t.Errorf("first TryAdmit = %v, want %v", got, Admitted)
	}
	if got := r.TryAdmit("https://example.com/"); got != RejectedDuplicate {
		t.Errorf("second TryAdmit = %v, want %v", got, RejectedDuplicate)
	}
	if got := r.TryAdmit("https://example.com/"); got != RejectedDuplicate {
		t.Errorf("third TryAdmit = %v, want %v", got, RejectedDuplicate)
	}

	if got := r.Visits()["https://example.com/"]; got != 3 {
		t.Errorf("visit count = %d, want 3", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if r.Stopped() {
		t.Error("registry must not be stopped within budget")
	}
}

func TestRegistry_Budget(t *testing.T) {
	t.Parallel()

	var stops atomic.Int32
	r := NewRegistry(2, func() { stops.Add(1) })

	r.TryAdmit("a")
	r.TryAdmit("b")

	if got := r.TryAdmit("c"); got != RejectedBudgetExceeded {
		t.Errorf("TryAdmit over budget = %v, want %v", got, RejectedBudgetExceeded)
	}
	if !r.Stopped() {
		t.Error("expected registry to be stopped")
	}

	// Once stopped, nothing is recorded anymore, duplicates included.
	if got := r.TryAdmit("a"); got != RejectedBudgetExceeded {
		t.Errorf("TryAdmit after stop = %v, want %v", got, RejectedBudgetExceeded)
	}
	r.TryAdmit("d")

	visits := r.Visits()
	if len(visits) != 2 || visits["a"] != 1 || visits["b"] != 1 {
		t.Errorf("visits = %v, want map[a:1 b:1]", visits)
	}
	if _, ok := visits["c"]; ok {
		t.Error("the URL that found the registry full must not be recorded")
	}
	if stops.Load() != 1 {
		t.Errorf("onStop called %d times, want 1", stops.Load())
	}
}

func TestRegistry_VisitsReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewRegistry(5, nil)
	r.TryAdmit("a")

	visits := r.Visits()
	visits["a"] = 100
	visits["z"] = 1

	if got := r.Visits(); got["a"] != 1 || len(got) != 1 {
		t.Errorf("registry modified through Visits(): %v", got)
	}
}

func TestRegistry_ConcurrentSameURL(t *testing.T) {
	t.Parallel()

	const callers = 100
	r := NewRegistry(10, nil)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAdmit("https://example.com/") == Admitted {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if admitted.Load() != 1 {
		t.Errorf("admitted %d times, want exactly 1", admitted.Load())
	}
	if got := r.Visits()["https://example.com/"]; got != callers {
		t.Errorf("visit count = %d, want %d", got, callers)
	}
}

func TestRegistry_ConcurrentBudget(t *testing.T) {
	t.Parallel()

	const (
		callers  = 200
		maxPages = 10
	)
	var stops atomic.Int32
	r := NewRegistry(maxPages, func() { stops.Add(1) })

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAdmit(fmt.Sprintf("https://example.com/%d", i)) == Admitted {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if admitted.Load() != maxPages {
		t.Errorf("admitted %d URLs, want %d", admitted.Load(), maxPages)
	}
	if r.Len() != maxPages {
		t.Errorf("Len() = %d, want %d", r.Len(), maxPages)
	}
	if stops.Load() != 1 {
		t.Errorf("onStop called %d times, want 1", stops.Load())
	}
}

func TestAdmission_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		admission Admission
		want      string
	}{
		{Admitted, "admitted"},
		{RejectedBudgetExceeded, "budget exceeded"},
		{RejectedDuplicate, "duplicate"},
		{Admission(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.admission.String(); got != tt.want {
			t.Errorf("Admission(%d).String() = %q, want %q", tt.admission, got, tt.want)
		}
	}
}
