package services

import (
	"context"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
)

// Role is the tagged variant an actor resolves to for a given event. Owner
// permissions are computed, never stored; a collaborator's come from their
// record under the event; everyone else has no access at all.
type Role int

const (
	RoleNone Role = iota
	RoleOwner
	RoleCollaborator
)

// PermissionService decides whether an acting identity may perform an
// action on an event. Checks are event-scoped: collaborators are recruited
// per event and must not gain access to an owner's other events.
type PermissionService struct {
	collaborators models.CollaboratorRepo
}

func NewPermissionService(collaborators models.CollaboratorRepo) *PermissionService {
	return &PermissionService{collaborators: collaborators}
}

func (s *PermissionService) IsOwner(actor *helpers.AuthClaims, ownerUID string) bool {
	return actor != nil && actor.UID == ownerUID
}

// Resolve classifies the actor against an event. Every failure path,
// including store unavailability, resolves to RoleNone: permission checks
// fail closed.
func (s *PermissionService) Resolve(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef) (Role, *models.Permissions) {
	if actor == nil {
		return RoleNone, nil
	}
	if actor.UID == ref.OwnerUID {
		p := models.OwnerPermissions()
		return RoleOwner, &p
	}
	if actor.Email == "" {
		return RoleNone, nil
	}
	collab, err := s.collaborators.GetCollaborator(ctx, ref, actor.Email)
	if err != nil || collab == nil {
		return RoleNone, nil
	}
	p := collab.Permissions
	return RoleCollaborator, &p
}

// CheckPermission reports whether the actor holds the named permission on
// the event. The owner passes unconditionally; a missing record or missing
// field denies.
func (s *PermissionService) CheckPermission(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef, perm models.Permission) bool {
	role, perms := s.Resolve(ctx, actor, ref)
	if role == RoleNone {
		return false
	}
	return perms.Has(perm)
}

// IsCollaborator is true only for non-owners with a record under the event.
// The owner is never a collaborator.
func (s *PermissionService) IsCollaborator(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef) bool {
	role, _ := s.Resolve(ctx, actor, ref)
	return role == RoleCollaborator
}

// EffectivePermissions returns the full permission set, or nil when the
// actor has no access to the event. Callers must treat nil as "no access",
// not as all-false.
func (s *PermissionService) EffectivePermissions(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef) *models.Permissions {
	role, perms := s.Resolve(ctx, actor, ref)
	if role == RoleNone {
		return nil
	}
	return perms
}
