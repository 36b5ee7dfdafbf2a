package models

// Event lives under a venue. Its ID is the push key generated by the store
// at creation time, unique within the venue.
type Event struct {
	ID        string `json:"id"`
	Name      string `json:"nombre" validate:"required,max=200"`
	VenueID   string `json:"discotecaId,omitempty"`
	Schedule  string `json:"fecha,omitempty"`
	Location  string `json:"ubicacion,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// CollaboratorEvent is an event returned from the collaborator listing,
// annotated with the owner whose tree it was found in.
type CollaboratorEvent struct {
	Event
	OwnerUID string `json:"ownerUid"`
}

// EventRef locates one event inside the tree. Every permission check and
// every event-scoped operation is addressed by one of these.
type EventRef struct {
	OwnerUID string `json:"ownerUid"`
	VenueID  string `json:"discotecaId"`
	EventID  string `json:"eventoId"`
}
