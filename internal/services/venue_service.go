package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/realtime"
	"github.com/farra-app/farra-api/internal/validation"
)

type CreateVenueRequest struct {
	Name     string `json:"nombre" validate:"required,texto"`
	Location string `json:"ubicacion" validate:"max=200"`
}

type CreateEventRequest struct {
	Name     string `json:"nombre" validate:"required,texto"`
	Schedule string `json:"fecha" validate:"max=200"`
	Location string `json:"ubicacion" validate:"max=200"`
}

// VenueService manages the owner-side tree: venues and the events under
// them. All writes are owner-only; reads on a single event are open to
// anyone the permission service grants access.
type VenueService struct {
	venues   models.VenueRepo
	perms    *PermissionService
	bitacora *BitacoraService
	hub      *realtime.Hub
	logger   *slog.Logger
}

func NewVenueService(venues models.VenueRepo, perms *PermissionService, bitacora *BitacoraService, hub *realtime.Hub, logger *slog.Logger) *VenueService {
	return &VenueService{
		venues:   venues,
		perms:    perms,
		bitacora: bitacora,
		hub:      hub,
		logger:   logger,
	}
}

// CreateVenue writes a venue under the actor's own subtree. The owner field
// is stamped from the verified identity, never taken from the request.
func (s *VenueService) CreateVenue(ctx context.Context, actor *helpers.AuthClaims, req CreateVenueRequest) (*models.Venue, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	venue := &models.Venue{
		ID:        uuid.NewString(),
		Name:      validation.Sanitize(req.Name),
		OwnerUID:  actor.UID,
		Location:  validation.Sanitize(req.Location),
		CreatedAt: models.NowMillis(),
	}
	if err := s.venues.CreateVenue(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// GetVenues lists the actor's own venues. There is no cross-owner listing.
func (s *VenueService) GetVenues(ctx context.Context, actor *helpers.AuthClaims) (map[string]models.Venue, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	return s.venues.GetVenues(ctx, actor.UID)
}

// CreateEvent adds an event under one of the actor's venues and records the
// creation as the first entry of the event's own bitácora.
func (s *VenueService) CreateEvent(ctx context.Context, actor *helpers.AuthClaims, venueID string, req CreateEventRequest) (*models.Event, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	event := &models.Event{
		Name:      validation.Sanitize(req.Name),
		VenueID:   venueID,
		Schedule:  validation.Sanitize(req.Schedule),
		Location:  validation.Sanitize(req.Location),
		CreatedAt: models.NowMillis(),
	}
	eventID, err := s.venues.CreateEvent(ctx, actor.UID, venueID, event)
	if err != nil {
		return nil, err
	}
	event.ID = eventID

	ref := models.EventRef{OwnerUID: actor.UID, VenueID: venueID, EventID: eventID}
	if _, err := s.bitacora.RecordAction(ctx, actor, ref, models.ActionEventCreated, map[string]any{
		"nombre": event.Name,
	}); err != nil {
		s.logger.Error("failed to record bitacora entry", "action", models.ActionEventCreated, "error", err)
	}
	return event, nil
}

// GetEvents lists a venue's events. The owner sees all of them; anyone else
// sees only the events where they hold a collaborator record, which leaves a
// stranger with an empty listing rather than an error.
func (s *VenueService) GetEvents(ctx context.Context, actor *helpers.AuthClaims, ownerUID, venueID string) (map[string]models.Event, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	events, err := s.venues.GetEvents(ctx, ownerUID, venueID)
	if err != nil {
		return nil, err
	}
	if actor.IsOwnerOf(ownerUID) {
		return events, nil
	}
	visible := make(map[string]models.Event)
	for id, event := range events {
		ref := models.EventRef{OwnerUID: ownerUID, VenueID: venueID, EventID: id}
		if s.perms.IsCollaborator(ctx, actor, ref) {
			visible[id] = event
		}
	}
	return visible, nil
}

// GetEvent reads a single event. Unlike the listings it is open to
// collaborators on that event, so the check goes through the permission
// service rather than comparing UIDs.
func (s *VenueService) GetEvent(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef) (*models.Event, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if s.perms.EffectivePermissions(ctx, actor, ref) == nil {
		return nil, ErrPermissionDenied
	}
	event, err := s.venues.GetEvent(ctx, ref)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

// SubscribeToVenues re-delivers the owner's venue map on every change under
// their subtree.
func (s *VenueService) SubscribeToVenues(ctx context.Context, ownerUID string, callback func(map[string]models.Venue)) func() {
	return subscribeView(s.hub, models.VenuesPath(ownerUID), func() {
		if venues, err := s.venues.GetVenues(ctx, ownerUID); err == nil {
			callback(venues)
		}
	})
}

// SubscribeToEvents re-delivers a venue's event map on every change.
func (s *VenueService) SubscribeToEvents(ctx context.Context, ownerUID, venueID string, callback func(map[string]models.Event)) func() {
	return subscribeView(s.hub, models.EventsPath(ownerUID, venueID), func() {
		if events, err := s.venues.GetEvents(ctx, ownerUID, venueID); err == nil {
			callback(events)
		}
	})
}
