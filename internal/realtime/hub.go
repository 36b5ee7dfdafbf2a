package realtime

import (
	"strings"
	"sync"
)

// Publisher fans a change notification out beyond the process, e.g. to
// PubNub channels the web clients listen on. Optional.
type Publisher interface {
	Publish(path string)
}

type subscription struct {
	path string
	fn   func()
}

// Hub is the in-process change feed. Every repository mutation reports the
// written path; every subscriber whose observed path overlaps it is invoked
// so it can refetch its view. That mirrors the store's own listener
// semantics: the whole subtree view is re-delivered on each change,
// including changes irrelevant to the subscriber's filter.
type Hub struct {
	mu        sync.RWMutex
	subs      map[int]*subscription
	next      int
	publisher Publisher
}

func NewHub(publisher Publisher) *Hub {
	return &Hub{
		subs:      make(map[int]*subscription),
		publisher: publisher,
	}
}

// Subscribe registers fn to run whenever a path overlapping the observed
// path is mutated. The returned unsubscribe handle is idempotent; callers
// own the cancellation, there is no automatic cleanup.
func (h *Hub) Subscribe(path string, fn func()) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = &subscription{path: path, fn: fn}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Notify reports a mutation at path. Callbacks run synchronously on the
// mutating goroutine; subscribers that need isolation dispatch themselves.
func (h *Hub) Notify(path string) {
	h.mu.RLock()
	var fns []func()
	for _, sub := range h.subs {
		if pathsOverlap(sub.path, path) {
			fns = append(fns, sub.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}

	if h.publisher != nil {
		h.publisher.Publish(path)
	}
}

// SubscriberCount reports how many subscriptions are live.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// pathsOverlap reports whether one path is an ancestor of the other (or
// they are equal), compared segment by segment.
func pathsOverlap(a, b string) bool {
	as := strings.Split(strings.Trim(a, "/"), "/")
	bs := strings.Split(strings.Trim(b, "/"), "/")
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
