package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollaboratorKey(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ana@example.com", "ana_example_com"},
		{"  ana@example.com  ", "ana_example_com"},
		{"a.b@c.d.e", "a_b_c_d_e"},
		{"plainstring", "plainstring"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CollaboratorKey(tt.email))
	}
}

func TestCollaboratorKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, CollaboratorKey("ana@example.com"), CollaboratorKey("ana@example.com"))
}

func TestCollaboratorKeyPreservesCase(t *testing.T) {
	// Case folding would collide emails the provider treats as distinct.
	assert.NotEqual(t, CollaboratorKey("Ana@example.com"), CollaboratorKey("ana@example.com"))
}

func TestPermissionsHas(t *testing.T) {
	p := Permissions{CanCreateTickets: true, CanScanQR: false, CanViewReports: true}
	assert.True(t, p.Has(PermCreateTickets))
	assert.False(t, p.Has(PermScanQR))
	assert.True(t, p.Has(PermViewReports))
	assert.False(t, p.Has(Permission("adminTotal")))
}

func TestOwnerPermissions(t *testing.T) {
	p := OwnerPermissions()
	assert.True(t, p.Has(PermCreateTickets))
	assert.True(t, p.Has(PermScanQR))
	assert.True(t, p.Has(PermViewReports))
}
