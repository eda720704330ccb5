package apiclient

import "sync"

// refreshFlight is one in-flight refresh. Waiters block on done and
// then read token/err; both are written before done is closed.
type refreshFlight struct {
	done  chan struct{}
	token string
	err   error
}

// refreshCoordinator collapses concurrent refresh attempts into a
// single network call. Every caller that joins while a refresh is in
// flight observes the same refreshed token or the same failure, never
// a mix. A caller arriving after the flight resolved starts a new one.
type refreshCoordinator struct {
	mu     sync.Mutex
	flight *refreshFlight
}

func (rc *refreshCoordinator) do(fn func() (string, error)) (string, error) {
	rc.mu.Lock()
	if f := rc.flight; f != nil {
		rc.mu.Unlock()
		<-f.done
		return f.token, f.err
	}
	f := &refreshFlight{done: make(chan struct{})}
	rc.flight = f
	rc.mu.Unlock()

	f.token, f.err = fn()

	rc.mu.Lock()
	rc.flight = nil
	rc.mu.Unlock()
	close(f.done)

	return f.token, f.err
}
