package prefs

import (
	"sync"
)

// watchers is the per-key subscriber registry shared by the store
// implementations. Each subscriber owns a one-slot channel; notify
// replaces an undelivered value so a stalled consumer sees the latest
// value rather than a backlog.
type watchers struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan string
	nextID int
	closed bool
}

func newWatchers() *watchers {
	return &watchers{subs: make(map[string]map[int]chan string)}
}

// subscribe registers a watcher for key and primes its channel with
// initial. The returned cancel is idempotent and closes the channel.
func (w *watchers) subscribe(key, initial string) (chan string, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan string, 1)
	ch <- initial

	if w.closed {
		close(ch)
		return ch, func() {}
	}

	id := w.nextID
	w.nextID++
	if w.subs[key] == nil {
		w.subs[key] = make(map[int]chan string)
	}
	w.subs[key][id] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.subs[key][id]; !ok {
			return
		}
		delete(w.subs[key], id)
		if len(w.subs[key]) == 0 {
			delete(w.subs, key)
		}
		close(ch)
	}
	return ch, cancel
}

// notify delivers value to every watcher of key, displacing any value a
// watcher has not consumed yet.
func (w *watchers) notify(key, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subs[key] {
		select {
		case ch <- value:
		default:
			// Drop the stale undelivered value. The watcher may consume
			// it between the drain and the send, in which case the
			// buffer is free again.
			select {
			case <-ch:
			default:
			}
			ch <- value
		}
	}
}

// closeAll closes every watcher channel and marks the registry closed;
// later subscribes return an already-closed channel.
func (w *watchers) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	for _, byID := range w.subs {
		for _, ch := range byID {
			close(ch)
		}
	}
	w.subs = make(map[string]map[int]chan string)
}
