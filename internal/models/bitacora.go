package models

// LogUser identifies who performed a bitácora action.
type LogUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"nombre"`
}

// LogEntry is one immutable record in an event's bitácora. Entries are
// append-only and read back in reverse-chronological order.
type LogEntry struct {
	ID        string         `json:"id"`
	Action    string         `json:"accion"`
	User      LogUser        `json:"usuario"`
	Timestamp int64          `json:"timestamp"`
	Date      string         `json:"fecha"`
	Details   map[string]any `json:"detalles,omitempty"`
}

// Actions recorded in the bitácora.
const (
	ActionTicketCreated     = "ticket_creado"
	ActionQRScanned         = "qr_escaneado"
	ActionStatusChanged     = "estado_cambiado"
	ActionCollaboratorAdded = "colaborador_agregado"
	ActionVenueCreated      = "discoteca_creada"
	ActionEventCreated      = "evento_creado"
)
