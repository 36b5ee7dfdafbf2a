package models

import "strings"

// Permission names as stored inside a collaborator record. Anything outside
// this set evaluates to false (closed world).
type Permission string

const (
	PermCreateTickets Permission = "crearTickets"
	PermScanQR        Permission = "leerQR"
	PermViewReports   Permission = "verReportes"
)

type Permissions struct {
	CanCreateTickets bool `json:"crearTickets"`
	CanScanQR        bool `json:"leerQR"`
	CanViewReports   bool `json:"verReportes"`
}

// Has evaluates a named permission against the record. Unknown names are
// denied.
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case PermCreateTickets:
		return p.CanCreateTickets
	case PermScanQR:
		return p.CanScanQR
	case PermViewReports:
		return p.CanViewReports
	}
	return false
}

// OwnerPermissions is what the owner of a venue implicitly holds on every
// event within it. Never stored: always computed.
func OwnerPermissions() Permissions {
	return Permissions{CanCreateTickets: true, CanScanQR: true, CanViewReports: true}
}

// Collaborator grants scoped access to exactly one event. The record is
// keyed by CollaboratorKey(Email) inside the event's colaboradores map and
// is overwritten wholesale on re-add.
type Collaborator struct {
	Email       string      `json:"email"`
	Permissions Permissions `json:"permisos"`
	AddedAt     int64       `json:"addedAt"`
}

var collaboratorKeyReplacer = strings.NewReplacer("@", "_", ".", "_")

// CollaboratorKey encodes an email into a key the tree accepts. The mapping
// is deterministic: the same email always yields the same key.
func CollaboratorKey(email string) string {
	return collaboratorKeyReplacer.Replace(strings.TrimSpace(email))
}
