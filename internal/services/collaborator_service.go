package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/realtime"
)

type AddCollaboratorRequest struct {
	Email string `json:"email" validate:"required,correo,max=200"`
	// Omitted flags take the recruiting defaults: sell and scan, no reports.
	CanCreateTickets *bool `json:"crearTickets"`
	CanScanQR        *bool `json:"leerQR"`
	CanViewReports   *bool `json:"verReportes"`
}

// CollaboratorService manages the per-event staff roster. Only the owner
// of the event's tree may add or list collaborators.
type CollaboratorService struct {
	collaborators models.CollaboratorRepo
	perms         *PermissionService
	bitacora      *BitacoraService
	hub           *realtime.Hub
	logger        *slog.Logger
}

func NewCollaboratorService(collaborators models.CollaboratorRepo, perms *PermissionService, bitacora *BitacoraService, hub *realtime.Hub, logger *slog.Logger) *CollaboratorService {
	return &CollaboratorService{
		collaborators: collaborators,
		perms:         perms,
		bitacora:      bitacora,
		hub:           hub,
		logger:        logger,
	}
}

// AddCollaborator writes (or overwrites) the roster record for an email.
// Re-adding replaces the permission set wholesale; there is no merge. The
// owner cannot add themselves: their access is computed, never stored.
func (s *CollaboratorService) AddCollaborator(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef, req AddCollaboratorRequest) (*models.Collaborator, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !s.perms.IsOwner(actor, ref.OwnerUID) {
		return nil, ErrPermissionDenied
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	email := strings.TrimSpace(req.Email)
	if strings.EqualFold(email, actor.Email) {
		return nil, fmt.Errorf("%w: owner cannot be added as collaborator", ErrInvalidInput)
	}

	collab := &models.Collaborator{
		Email: email,
		Permissions: models.Permissions{
			CanCreateTickets: boolOr(req.CanCreateTickets, true),
			CanScanQR:        boolOr(req.CanScanQR, true),
			CanViewReports:   boolOr(req.CanViewReports, false),
		},
		AddedAt: models.NowMillis(),
	}
	if err := s.collaborators.SetCollaborator(ctx, ref, collab); err != nil {
		return nil, err
	}

	if _, err := s.bitacora.RecordAction(ctx, actor, ref, models.ActionCollaboratorAdded, map[string]any{
		"email":    collab.Email,
		"permisos": collab.Permissions,
	}); err != nil {
		s.logger.Error("failed to record bitacora entry", "action", models.ActionCollaboratorAdded, "error", err)
	}
	return collab, nil
}

// GetCollaborators returns the event's roster keyed by collaborator key.
func (s *CollaboratorService) GetCollaborators(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef) (map[string]models.Collaborator, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !s.perms.IsOwner(actor, ref.OwnerUID) {
		return nil, ErrPermissionDenied
	}
	return s.collaborators.GetCollaborators(ctx, ref)
}

// ListMyEvents finds every event, across all owners, where the actor's
// email appears on the roster. This is the collaborator's home screen.
func (s *CollaboratorService) ListMyEvents(ctx context.Context, actor *helpers.AuthClaims) ([]models.CollaboratorEvent, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if actor.Email == "" {
		return nil, nil
	}
	return s.collaborators.ListEventsForCollaborator(ctx, actor.Email)
}

// SubscribeToCollaborators re-delivers the roster on every change.
func (s *CollaboratorService) SubscribeToCollaborators(ctx context.Context, ref models.EventRef, callback func(map[string]models.Collaborator)) func() {
	path := models.CollaboratorsPath(ref.OwnerUID, ref.VenueID, ref.EventID)
	return subscribeView(s.hub, path, func() {
		if roster, err := s.collaborators.GetCollaborators(ctx, ref); err == nil {
			callback(roster)
		}
	})
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
