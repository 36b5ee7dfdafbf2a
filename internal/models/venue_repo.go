package models

import (
	"context"
	"fmt"
)

func (r *RTDBRepo) CreateVenue(ctx context.Context, v *Venue) error {
	if v.OwnerUID == "" || v.ID == "" {
		return fmt.Errorf("venue owner and id are required")
	}
	if v.CreatedAt == 0 {
		v.CreatedAt = NowMillis()
	}
	path := VenuePath(v.OwnerUID, v.ID)
	if err := r.store.Set(ctx, path, v); err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	r.notify(path)
	return nil
}

func (r *RTDBRepo) GetVenues(ctx context.Context, ownerUID string) (map[string]Venue, error) {
	venues := make(map[string]Venue)
	if err := r.store.Get(ctx, VenuesPath(ownerUID), &venues); err != nil {
		return nil, fmt.Errorf("failed to get venues: %w", err)
	}
	return venues, nil
}

// CreateEvent pushes a new child under the venue's eventos list and writes
// the record with its generated key as id, the same two-step the web client
// performed.
func (r *RTDBRepo) CreateEvent(ctx context.Context, ownerUID, venueID string, e *Event) (string, error) {
	if e.CreatedAt == 0 {
		e.CreatedAt = NowMillis()
	}
	e.VenueID = venueID
	id, err := r.store.Push(ctx, EventsPath(ownerUID, venueID), e)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	e.ID = id
	path := EventPath(ownerUID, venueID, id)
	if err := r.store.Update(ctx, path, map[string]any{"id": id}); err != nil {
		return "", fmt.Errorf("failed to stamp event id: %w", err)
	}
	r.notify(path)
	return id, nil
}

func (r *RTDBRepo) GetEvents(ctx context.Context, ownerUID, venueID string) (map[string]Event, error) {
	events := make(map[string]Event)
	if err := r.store.Get(ctx, EventsPath(ownerUID, venueID), &events); err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

func (r *RTDBRepo) GetEvent(ctx context.Context, ref EventRef) (*Event, error) {
	var e Event
	if err := r.store.Get(ctx, EventPath(ref.OwnerUID, ref.VenueID, ref.EventID), &e); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if e.ID == "" {
		return nil, nil
	}
	return &e, nil
}
