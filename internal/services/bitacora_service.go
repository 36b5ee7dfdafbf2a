package services

import (
	"context"
	"sort"
	"time"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/realtime"
)

const DefaultLogLimit = 100

// esDateLayout matches the es-ES locale string the web client wrote into
// existing entries, e.g. "29/8/2026, 14:05:07".
const esDateLayout = "2/1/2006, 15:04:05"

// BitacoraService appends and reads the immutable per-event action log.
type BitacoraService struct {
	logs models.BitacoraRepo
	hub  *realtime.Hub
}

func NewBitacoraService(logs models.BitacoraRepo, hub *realtime.Hub) *BitacoraService {
	return &BitacoraService{logs: logs, hub: hub}
}

// RecordAction appends an entry attributed to the actor. With no
// authenticated actor it is a silent no-op: the log never records anonymous
// actions and never fails the operation that triggered it.
func (s *BitacoraService) RecordAction(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef, action string, details map[string]any) (*models.LogEntry, error) {
	if actor == nil {
		return nil, nil
	}

	now := time.Now()
	entry := &models.LogEntry{
		Action: action,
		User: models.LogUser{
			UID:   actor.UID,
			Email: actor.Email,
			Name:  actor.DisplayName(),
		},
		Timestamp: now.UnixMilli(),
		Date:      now.Format(esDateLayout),
		Details:   details,
	}
	if err := s.logs.AppendLog(ctx, ref, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetLog returns up to limit entries, most recent first.
func (s *BitacoraService) GetLog(ctx context.Context, ref models.EventRef, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	entries, err := s.logs.GetLog(ctx, ref, limit)
	if err != nil {
		return nil, err
	}
	// Push keys grow over time, so they break ties within one millisecond.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

// SubscribeToLog delivers the current view immediately and again after
// every change under the event's bitácora. The caller owns the returned
// unsubscribe handle; calling it more than once is safe.
func (s *BitacoraService) SubscribeToLog(ctx context.Context, ref models.EventRef, limit int, callback func([]models.LogEntry)) func() {
	path := models.BitacoraPath(ref.OwnerUID, ref.VenueID, ref.EventID)
	return subscribeView(s.hub, path, func() {
		if entries, err := s.GetLog(ctx, ref, limit); err == nil {
			callback(entries)
		}
	})
}
