package assist

import "sync"

// Control names the button a request came from
type Control string

const (
	ControlInspiration Control = "inspiration"
	ControlRefine      Control = "refine"
)

// Guard allows one in-flight request per (owner, control). The owner is
// normally a session token.
type Guard struct {
	mu       sync.Mutex
	inflight map[guardKey]struct{}
}

type guardKey struct {
	owner   string
	control Control
}

// NewGuard creates an empty guard
func NewGuard() *Guard {
	return &Guard{inflight: make(map[guardKey]struct{})}
}

// Acquire marks the control busy. It returns a release func and true, or
// nil and false when a request for the same control is already running.
func (g *Guard) Acquire(owner string, control Control) (func(), bool) {
	key := guardKey{owner: owner, control: control}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return nil, false
	}
	g.inflight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy reports whether control has a request in flight for owner
func (g *Guard) Busy(owner string, control Control) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[guardKey{owner: owner, control: control}]
	return busy
}
