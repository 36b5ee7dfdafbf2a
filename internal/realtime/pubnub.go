package realtime

import (
	"log/slog"
	"strings"

	pubnub "github.com/pubnub/go/v7"
)

// PubNubPublisher pushes change notifications onto a per-owner channel so
// browser clients can refetch without polling. Publishing is fire-and-forget
// on a separate goroutine; a failed publish only costs a delayed refresh.
type PubNubPublisher struct {
	pn     *pubnub.PubNub
	logger *slog.Logger
}

func NewPubNubPublisher(pn *pubnub.PubNub, logger *slog.Logger) *PubNubPublisher {
	return &PubNubPublisher{pn: pn, logger: logger}
}

func (p *PubNubPublisher) Publish(path string) {
	channel := channelFor(path)
	go func() {
		_, _, err := p.pn.Publish().
			Channel(channel).
			Message(map[string]string{"path": path}).
			Execute()
		if err != nil {
			p.logger.Warn("pubnub publish failed", "channel", channel, "error", err)
		}
	}()
}

// channelFor scopes notifications to the owner whose subtree changed, so a
// client only receives traffic for trees it can read.
func channelFor(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "users" {
		return "tree." + parts[1]
	}
	return "tree." + parts[0]
}
