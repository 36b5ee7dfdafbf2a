package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyReachesOverlappingSubscribers(t *testing.T) {
	hub := NewHub(nil)

	var ticketViews, venueViews int
	hub.Subscribe("users/u1/discotecas/v1/eventos/e1/tickets", func() { ticketViews++ })
	hub.Subscribe("users/u2/discotecas", func() { venueViews++ })

	hub.Notify("users/u1/discotecas/v1/eventos/e1/tickets/t1")
	assert.Equal(t, 1, ticketViews, "child write reaches the subtree subscriber")
	assert.Equal(t, 0, venueViews, "unrelated subtree stays quiet")

	hub.Notify("users/u1")
	assert.Equal(t, 2, ticketViews, "ancestor write reaches descendants")
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(nil)

	var calls int
	unsubscribe := hub.Subscribe("users/u1", func() { calls++ })
	assert.Equal(t, 1, hub.SubscriberCount())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount())

	hub.Notify("users/u1")
	assert.Equal(t, 0, calls)
}

func TestUnsubscribeRemovesOnlyItsOwnSubscription(t *testing.T) {
	hub := NewHub(nil)

	var a, b int
	unsubA := hub.Subscribe("users/u1", func() { a++ })
	hub.Subscribe("users/u1", func() { b++ })

	unsubA()
	hub.Notify("users/u1/discotecas")

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

type recordingPublisher struct {
	paths []string
}

func (p *recordingPublisher) Publish(path string) { p.paths = append(p.paths, path) }

func TestNotifyForwardsToPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	hub := NewHub(pub)

	hub.Notify("users/u1/discotecas/v1")
	assert.Equal(t, []string{"users/u1/discotecas/v1"}, pub.paths)
}

func TestPathsOverlap(t *testing.T) {
	assert.True(t, pathsOverlap("users/u1", "users/u1"))
	assert.True(t, pathsOverlap("users/u1", "users/u1/discotecas"))
	assert.True(t, pathsOverlap("users/u1/discotecas", "users/u1"))
	assert.False(t, pathsOverlap("users/u1", "users/u2"))
	assert.False(t, pathsOverlap("codeIndex/abc", "users/u1"))
}
