package crawler

import "sync"

// Admission is the outcome of a Registry.TryAdmit call.
type Admission int

const (
	// Admitted means the URL was new and the caller may fetch it.
	Admitted Admission = iota

	// RejectedBudgetExceeded means the page budget is used up.
	// The stop flag is set and no further URL will ever be admitted.
	RejectedBudgetExceeded

	// RejectedDuplicate means the URL was admitted earlier.
	// Its visit count has been incremented.
	RejectedDuplicate
)

// String returns a human-readable name for the admission outcome.
func (a Admission) String() string {
	switch a {
	case Admitted:
		return "admitted"
	case RejectedBudgetExceeded:
		return "budget exceeded"
	case RejectedDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Registry records how many times each canonical URL was reached during a
// single crawl run and enforces the page budget.
//
// Goroutines crawl branches in parallel, so the visit map and the stop flag
// live behind one mutex. TryAdmit is the only mutating operation.
type Registry struct {
	mu       sync.Mutex
	visits   map[string]int
	maxPages int
	stopped  bool

	// onStop is called exactly once, when the stop flag flips.
	onStop func()
}

// NewRegistry creates a Registry that admits at most maxPages distinct URLs.
// onStop may be nil; otherwise it is invoked once when the budget runs out.
func NewRegistry(maxPages int, onStop func()) *Registry {
	return &Registry{
		visits:   make(map[string]int),
		maxPages: maxPages,
		onStop:   onStop,
	}
}

// TryAdmit decides whether canonicalURL may be fetched.
//
// The budget check happens before insertion, so the URL that finds the
// registry full is rejected without being recorded. Once the stop flag is set
// nothing is mutated anymore, duplicates included.
func (r *Registry) TryAdmit(canonicalURL string) Admission {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return RejectedBudgetExceeded
	}

	if len(r.visits) >= r.maxPages {
		r.stopped = true
		if r.onStop != nil {
			r.onStop()
		}
		return RejectedBudgetExceeded
	}

	if _, ok := r.visits[canonicalURL]; ok {
		r.visits[canonicalURL]++
		return RejectedDuplicate
	}

	r.visits[canonicalURL] = 1
	return Admitted
}

// Stopped reports whether the page budget has been exhausted.
func (r *Registry) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Len returns the number of distinct URLs admitted so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}

// Visits returns a copy of the canonical URL to visit count map.
func (r *Registry) Visits() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.visits))
	for k, v := range r.visits {
		out[k] = v
	}
	return out
}
