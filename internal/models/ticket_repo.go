package models

import (
	"context"
	"fmt"
)

// NewTicketID mints a push-style key for the ticket without touching the
// store. Nothing appears under the event's ticket list until PutTicket
// writes the full record, so listings never see a half-issued ticket even
// when issuance aborts between the code reservation and the write.
func (r *RTDBRepo) NewTicketID() string {
	return NewPushKey()
}

// ReserveCode claims a secure code in the codeIndex. The write is
// transactional: a second issuance racing on the same code loses and must
// regenerate. This is what makes secureCode globally unique.
func (r *RTDBRepo) ReserveCode(ctx context.Context, code string, loc TicketLocation) (bool, error) {
	ok, err := r.store.Reserve(ctx, CodeIndexPath(code), loc)
	if err != nil {
		return false, fmt.Errorf("failed to reserve secure code: %w", err)
	}
	return ok, nil
}

func (r *RTDBRepo) PutTicket(ctx context.Context, loc TicketLocation, t *Ticket) error {
	path := TicketPath(loc.OwnerUID, loc.VenueID, loc.EventID, loc.TicketID)
	if err := r.store.Set(ctx, path, t); err != nil {
		return fmt.Errorf("failed to write ticket: %w", err)
	}
	r.notify(path)
	return nil
}

func (r *RTDBRepo) GetTicket(ctx context.Context, loc TicketLocation) (*Ticket, error) {
	var t Ticket
	path := TicketPath(loc.OwnerUID, loc.VenueID, loc.EventID, loc.TicketID)
	if err := r.store.Get(ctx, path, &t); err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if t.ID == "" {
		return nil, nil
	}
	return &t, nil
}

func (r *RTDBRepo) GetTickets(ctx context.Context, ref EventRef) (map[string]Ticket, error) {
	tickets := make(map[string]Ticket)
	if err := r.store.Get(ctx, TicketsPath(ref.OwnerUID, ref.VenueID, ref.EventID), &tickets); err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return tickets, nil
}

// UpdateTicketStatus merges only estado and updatedAt into the record.
// Concurrent updates race last-write-wins; there is no optimistic check.
func (r *RTDBRepo) UpdateTicketStatus(ctx context.Context, loc TicketLocation, status TicketStatus, updatedAt int64) error {
	path := TicketPath(loc.OwnerUID, loc.VenueID, loc.EventID, loc.TicketID)
	err := r.store.Update(ctx, path, map[string]any{
		"estado":    status,
		"updatedAt": updatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	r.notify(path)
	return nil
}

// FindCode resolves a secure code through the codeIndex in a single read.
// An unknown code is not an error: it returns nil.
func (r *RTDBRepo) FindCode(ctx context.Context, code string) (*TicketLocation, error) {
	var loc TicketLocation
	if err := r.store.Get(ctx, CodeIndexPath(code), &loc); err != nil {
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}
	if loc.TicketID == "" {
		return nil, nil
	}
	return &loc, nil
}
