package models

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

// Notifier receives the path of every mutation so realtime subscribers can
// refetch their views. The realtime hub implements it.
type Notifier interface {
	Notify(path string)
}

type VenueRepo interface {
	CreateVenue(ctx context.Context, v *Venue) error
	GetVenues(ctx context.Context, ownerUID string) (map[string]Venue, error)
	CreateEvent(ctx context.Context, ownerUID, venueID string, e *Event) (string, error)
	GetEvents(ctx context.Context, ownerUID, venueID string) (map[string]Event, error)
	GetEvent(ctx context.Context, ref EventRef) (*Event, error)
}

type TicketRepo interface {
	NewTicketID() string
	ReserveCode(ctx context.Context, code string, loc TicketLocation) (bool, error)
	PutTicket(ctx context.Context, loc TicketLocation, t *Ticket) error
	GetTicket(ctx context.Context, loc TicketLocation) (*Ticket, error)
	GetTickets(ctx context.Context, ref EventRef) (map[string]Ticket, error)
	UpdateTicketStatus(ctx context.Context, loc TicketLocation, status TicketStatus, updatedAt int64) error
	FindCode(ctx context.Context, code string) (*TicketLocation, error)
}

type CollaboratorRepo interface {
	SetCollaborator(ctx context.Context, ref EventRef, c *Collaborator) error
	GetCollaborator(ctx context.Context, ref EventRef, email string) (*Collaborator, error)
	GetCollaborators(ctx context.Context, ref EventRef) (map[string]Collaborator, error)
	ListEventsForCollaborator(ctx context.Context, email string) ([]CollaboratorEvent, error)
}

type BitacoraRepo interface {
	AppendLog(ctx context.Context, ref EventRef, entry *LogEntry) error
	GetLog(ctx context.Context, ref EventRef, limit int) ([]LogEntry, error)
}

// RTDBRepo implements every repository interface on top of a TreeStore.
// The name reflects the production backing store; with a MemoryStore the
// same code paths run minus the network.
type RTDBRepo struct {
	store    TreeStore
	notifier Notifier
}

func NewRTDBRepo(store TreeStore, notifier Notifier) *RTDBRepo {
	return &RTDBRepo{store: store, notifier: notifier}
}

func (r *RTDBRepo) notify(path string) {
	if r.notifier != nil {
		r.notifier.Notify(path)
	}
}
