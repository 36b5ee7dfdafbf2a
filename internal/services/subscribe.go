package services

import (
	"sync"

	"github.com/farra-app/farra-api/internal/monitoring"
	"github.com/farra-app/farra-api/internal/realtime"
)

// subscribeView implements the refetch-on-change subscription every service
// exposes: deliver the current view once, then again on each overlapping
// mutation. Unsubscribing is idempotent and is the caller's job.
func subscribeView(hub *realtime.Hub, path string, fetch func()) func() {
	fetch()
	unsubscribe := hub.Subscribe(path, fetch)
	monitoring.SubscriptionOpened()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			monitoring.SubscriptionClosed()
		})
	}
}
