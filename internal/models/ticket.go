package models

// TicketStatus is the three-value lifecycle of a sold ticket. There is no
// enforced ordering between the values: entregado may revert to pagado,
// which the product treats as an undo.
type TicketStatus string

const (
	TicketStatusPagado    TicketStatus = "pagado"
	TicketStatusEntregado TicketStatus = "entregado"
	TicketStatusCancelado TicketStatus = "cancelado"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPagado, TicketStatusEntregado, TicketStatusCancelado:
		return true
	}
	return false
}

// Ticket is created once at sale time and mutated only through status
// transitions, never deleted. SecureCode is globally unique across the whole
// tree and doubles as the value encoded into the ticket's QR image.
type Ticket struct {
	ID         string       `json:"id"`
	SecureCode string       `json:"secureCode"`
	BuyerName  string       `json:"nombreCliente"`
	EventName  string       `json:"eventoNombre"`
	Schedule   string       `json:"fecha"`
	Location   string       `json:"ubicacion"`
	Price      string       `json:"precio"`
	TicketType string       `json:"tipoEntrada"`
	Quantity   int          `json:"cantidadBoletas"`
	Status     TicketStatus `json:"estado"`
	QRImageURL string       `json:"qrImageUrl,omitempty"`
	CreatedAt  int64        `json:"createdAt"`
	UpdatedAt  int64        `json:"updatedAt"`
}

// TicketLocation is the value stored in the codeIndex: it resolves a secure
// code to the full path of its ticket without scanning the tree.
type TicketLocation struct {
	OwnerUID string `json:"ownerUid"`
	VenueID  string `json:"discotecaId"`
	EventID  string `json:"eventoId"`
	TicketID string `json:"ticketId"`
}

func (l TicketLocation) EventRef() EventRef {
	return EventRef{OwnerUID: l.OwnerUID, VenueID: l.VenueID, EventID: l.EventID}
}

// FoundTicket is the result of resolving a scanned code.
type FoundTicket struct {
	Ticket Ticket `json:"ticket"`
	TicketLocation
}

// IssuedTicket is returned from a sale.
type IssuedTicket struct {
	TicketID   string `json:"ticketId"`
	SecureCode string `json:"secureCode"`
	Ticket     Ticket `json:"ticket"`
}
