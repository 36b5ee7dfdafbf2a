package models

import (
	"context"
	"fmt"
)

func (r *RTDBRepo) SetCollaborator(ctx context.Context, ref EventRef, c *Collaborator) error {
	if c.AddedAt == 0 {
		c.AddedAt = NowMillis()
	}
	path := CollaboratorPath(ref.OwnerUID, ref.VenueID, ref.EventID, c.Email)
	// Full overwrite: re-adding an email replaces the prior record entirely.
	if err := r.store.Set(ctx, path, c); err != nil {
		return fmt.Errorf("failed to write collaborator: %w", err)
	}
	r.notify(path)
	return nil
}

func (r *RTDBRepo) GetCollaborator(ctx context.Context, ref EventRef, email string) (*Collaborator, error) {
	var c Collaborator
	path := CollaboratorPath(ref.OwnerUID, ref.VenueID, ref.EventID, email)
	if err := r.store.Get(ctx, path, &c); err != nil {
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	if c.Email == "" {
		return nil, nil
	}
	return &c, nil
}

func (r *RTDBRepo) GetCollaborators(ctx context.Context, ref EventRef) (map[string]Collaborator, error) {
	collaborators := make(map[string]Collaborator)
	if err := r.store.Get(ctx, CollaboratorsPath(ref.OwnerUID, ref.VenueID, ref.EventID), &collaborators); err != nil {
		return nil, fmt.Errorf("failed to get collaborators: %w", err)
	}
	return collaborators, nil
}

// Shapes for walking the whole users subtree. Only the fields the
// collaborator scan needs are declared; everything else is skipped during
// unmarshalling.
type scanEvent struct {
	Event
	Colaboradores map[string]Collaborator `json:"colaboradores"`
}

type scanVenue struct {
	Eventos map[string]scanEvent `json:"eventos"`
}

type scanOwner struct {
	Discotecas map[string]scanVenue `json:"discotecas"`
}

// ListEventsForCollaborator walks every owner, venue and event in the tree
// and collects the events whose colaboradores map contains the sanitized
// email key. The store offers no query over nested keys, so this remains a
// full fetch; it only runs when a collaborator loads their dashboard.
func (r *RTDBRepo) ListEventsForCollaborator(ctx context.Context, email string) ([]CollaboratorEvent, error) {
	owners := make(map[string]scanOwner)
	if err := r.store.Get(ctx, UsersPath(), &owners); err != nil {
		return nil, fmt.Errorf("failed to scan for collaborations: %w", err)
	}

	key := CollaboratorKey(email)
	var events []CollaboratorEvent
	for ownerUID, owner := range owners {
		for venueID, venue := range owner.Discotecas {
			for eventID, ev := range venue.Eventos {
				if _, ok := ev.Colaboradores[key]; !ok {
					continue
				}
				e := ev.Event
				e.ID = eventID
				e.VenueID = venueID
				events = append(events, CollaboratorEvent{Event: e, OwnerUID: ownerUID})
			}
		}
	}
	return events, nil
}
