// Package transportscope reference-counts process-wide transport
// library initialization.
//
// Adapted from the teacher's internal/util.RefCount. Plain TCP sockets
// need no such init on the platforms this package targets, but spec §9
// ("Global transport library init") calls for a scoped acquire/release
// seam so a host binding linking a transport library that *does* need
// process-wide setup (e.g. a platform socket library's startup/cleanup
// pair) can hook in without every Session duplicating that bookkeeping,
// and so that N concurrent Sessions share one acquire/release pair
// instead of tearing the library down while a sibling Session is still
// using it.
package transportscope

import "sync"

// Hooks are called when the first Session in a process acquires the
// scope, and when the last one releases it. Either may be nil.
type Hooks struct {
	Acquire func() error
	Release func()
}

var (
	mu       sync.Mutex
	refs     int
	current  Hooks
	acquired bool
)

// SetHooks installs the Acquire/Release pair used by future calls to
// Acquire. It must be called before the first Session is constructed;
// it is not safe to change hooks while sessions are live.
func SetHooks(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	current = h
}

// Acquire increments the process-wide reference count, calling the
// installed Acquire hook only on the 0→1 transition. The returned
// release function must be called exactly once, typically via
// defer, when the owning Session is torn down.
func Acquire() (release func(), err error) {
	mu.Lock()
	defer mu.Unlock()

	if refs == 0 && current.Acquire != nil {
		if err := current.Acquire(); err != nil {
			return nil, err
		}
		acquired = true
	}
	refs++

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			refs--
			if refs == 0 && acquired && current.Release != nil {
				current.Release()
				acquired = false
			}
		})
	}, nil
}
