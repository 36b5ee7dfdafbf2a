package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farra-app/farra-api/internal/models"
)

func TestAddCollaboratorDefaults(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)
	ctx := context.Background()

	collab, err := f.collaborators.AddCollaborator(ctx, ownerActor(), ref, AddCollaboratorRequest{
		Email: "ana@example.com",
	})
	require.NoError(t, err)

	// Recruiting defaults: sell and scan, but no reports.
	assert.True(t, collab.Permissions.CanCreateTickets)
	assert.True(t, collab.Permissions.CanScanQR)
	assert.False(t, collab.Permissions.CanViewReports)
	assert.NotZero(t, collab.AddedAt)
}

func TestAddCollaboratorIsOwnerOnly(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)
	ctx := context.Background()

	req := AddCollaboratorRequest{Email: "ana@example.com"}

	_, err := f.collaborators.AddCollaborator(ctx, strangerActor(), ref, req)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.collaborators.AddCollaborator(ctx, nil, ref, req)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// A collaborator cannot recruit either.
	_, err = f.collaborators.AddCollaborator(ctx, ownerActor(), ref, req)
	require.NoError(t, err)
	_, err = f.collaborators.AddCollaborator(ctx, collaboratorActor(), ref, AddCollaboratorRequest{Email: "otro@example.com"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAddCollaboratorRejectsOwnerEmail(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)

	_, err := f.collaborators.AddCollaborator(context.Background(), ownerActor(), ref, AddCollaboratorRequest{
		Email: "owner@example.com",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddCollaboratorRejectsBadEmail(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)

	_, err := f.collaborators.AddCollaborator(context.Background(), ownerActor(), ref, AddCollaboratorRequest{
		Email: "not-an-email",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReAddingReplacesPermissions(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)
	ctx := context.Background()

	_, err := f.collaborators.AddCollaborator(ctx, ownerActor(), ref, AddCollaboratorRequest{
		Email:          "ana@example.com",
		CanViewReports: boolPtr(true),
	})
	require.NoError(t, err)

	// Re-add with an explicit narrow grant; the old record must not bleed in.
	_, err = f.collaborators.AddCollaborator(ctx, ownerActor(), ref, AddCollaboratorRequest{
		Email:            "ana@example.com",
		CanCreateTickets: boolPtr(false),
		CanScanQR:        boolPtr(true),
		CanViewReports:   boolPtr(false),
	})
	require.NoError(t, err)

	roster, err := f.collaborators.GetCollaborators(ctx, ownerActor(), ref)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	got := roster[models.CollaboratorKey("ana@example.com")]
	assert.False(t, got.Permissions.CanCreateTickets)
	assert.True(t, got.Permissions.CanScanQR)
	assert.False(t, got.Permissions.CanViewReports)
}

func TestGetCollaboratorsIsOwnerOnly(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)
	ctx := context.Background()

	_, err := f.collaborators.AddCollaborator(ctx, ownerActor(), ref, AddCollaboratorRequest{Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = f.collaborators.GetCollaborators(ctx, collaboratorActor(), ref)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListMyEvents(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)
	ctx := context.Background()

	_, err := f.collaborators.AddCollaborator(ctx, ownerActor(), ref, AddCollaboratorRequest{Email: "ana@example.com"})
	require.NoError(t, err)

	events, err := f.collaborators.ListMyEvents(ctx, collaboratorActor())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ref.EventID, events[0].ID)
	assert.Equal(t, ref.OwnerUID, events[0].OwnerUID)
	assert.Equal(t, ref.VenueID, events[0].VenueID)

	none, err := f.collaborators.ListMyEvents(ctx, strangerActor())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddCollaboratorAppearsInBitacora(t *testing.T) {
	f := newFixture()
	ref := seedEvent(t, f)
	ctx := context.Background()

	_, err := f.collaborators.AddCollaborator(ctx, ownerActor(), ref, AddCollaboratorRequest{Email: "ana@example.com"})
	require.NoError(t, err)

	entries, err := f.bitacora.GetLog(ctx, ref, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, models.ActionCollaboratorAdded, entries[0].Action)
}
