package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farra-app/farra-api/internal/config"
	"github.com/farra-app/farra-api/internal/container"
	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
)

// stubVerifier maps bearer tokens straight to identities.
type stubVerifier struct {
	users map[string]*helpers.AuthClaims
}

func (s *stubVerifier) Verify(_ context.Context, idToken string) (*helpers.AuthClaims, error) {
	claims, ok := s.users[idToken]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	copied := *claims
	return &copied, nil
}

func newTestRouter() http.Handler {
	verifier := &stubVerifier{users: map[string]*helpers.AuthClaims{
		"tok-owner": {UID: "owner1", Email: "owner@example.com", Name: "Dueno"},
		"tok-ana":   {UID: "collab1", Email: "ana@example.com", Name: "Ana"},
		"tok-nadie": {UID: "stranger1", Email: "otro@example.com"},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appContainer := container.NewContainer(logger, models.NewMemoryStore(), verifier, nil, nil, nil)
	cfg := &config.Config{Environment: "test", ClientURL: "http://localhost:3000"}
	return SetupRoutes(cfg, appContainer)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, models.ApiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var res models.ApiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	}
	return w, res
}

func dataField[T any](t *testing.T, res models.ApiResponse, key string) T {
	t.Helper()
	obj, ok := res.Data.(map[string]any)
	require.True(t, ok, "data is not an object: %v", res.Data)
	v, ok := obj[key].(T)
	require.True(t, ok, "missing %q in %v", key, obj)
	return v
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/venues", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/venues", "tok-falso", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFullTicketFlow(t *testing.T) {
	router := newTestRouter()

	// Owner creates a venue and an event.
	w, res := doJSON(t, router, http.MethodPost, "/api/v1/venues", "tok-owner",
		map[string]any{"nombre": "Club Aurora"})
	require.Equal(t, http.StatusCreated, w.Code)
	venueID := dataField[string](t, res, "id")

	base := "/api/v1/owners/owner1/venues/" + venueID + "/events"
	w, res = doJSON(t, router, http.MethodPost, base, "tok-owner",
		map[string]any{"nombre": "Viernes", "fecha": "2026-09-04 22:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := dataField[string](t, res, "id")
	eventBase := base + "/" + eventID

	// Owner recruits door staff limited to scanning.
	w, _ = doJSON(t, router, http.MethodPost, eventBase+"/collaborators", "tok-owner",
		map[string]any{"email": "ana@example.com", "crearTickets": false, "leerQR": true, "verReportes": false})
	require.Equal(t, http.StatusCreated, w.Code)

	// Owner sells a ticket.
	w, res = doJSON(t, router, http.MethodPost, eventBase+"/tickets", "tok-owner", map[string]any{
		"nombreCliente":   "Ana Torres",
		"eventoNombre":    "Viernes",
		"precio":          "Gratis",
		"cantidadBoletas": float64(2),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	code := dataField[string](t, res, "secureCode")
	ticketID := dataField[string](t, res, "ticketId")

	// Door staff scans the code and marks the ticket delivered.
	w, res = doJSON(t, router, http.MethodPost, "/api/v1/scan", "tok-ana", map[string]any{"code": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, eventID, dataField[string](t, res, "eventoId"))

	w, _ = doJSON(t, router, http.MethodPatch, eventBase+"/tickets/"+ticketID+"/status", "tok-ana",
		map[string]any{"estado": "entregado"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Reports stay closed to door staff but open to the owner.
	w, _ = doJSON(t, router, http.MethodGet, eventBase+"/tickets", "tok-ana", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, res = doJSON(t, router, http.MethodGet, eventBase+"/tickets", "tok-owner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, res.Total)

	// The whole story is in the bitácora, newest first.
	w, _ = doJSON(t, router, http.MethodGet, eventBase+"/bitacora", "tok-owner", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Strangers get nothing, with or without a valid code.
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/scan", "tok-nadie", map[string]any{"code": code})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScanUnknownCodeIs404(t *testing.T) {
	router := newTestRouter()

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/scan", "tok-owner", map[string]any{"code": "NO-SUCH"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidStatusIs400(t *testing.T) {
	router := newTestRouter()

	w, res := doJSON(t, router, http.MethodPost, "/api/v1/venues", "tok-owner", map[string]any{"nombre": "Aurora"})
	require.Equal(t, http.StatusCreated, w.Code)
	venueID := dataField[string](t, res, "id")

	base := "/api/v1/owners/owner1/venues/" + venueID + "/events"
	w, res = doJSON(t, router, http.MethodPost, base, "tok-owner", map[string]any{"nombre": "Viernes"})
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := dataField[string](t, res, "id")

	w, _ = doJSON(t, router, http.MethodPatch, base+"/"+eventID+"/tickets/t1/status", "tok-owner",
		map[string]any{"estado": "vendido"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventCreationIsOwnerOnly(t *testing.T) {
	router := newTestRouter()

	w, res := doJSON(t, router, http.MethodPost, "/api/v1/venues", "tok-owner", map[string]any{"nombre": "Aurora"})
	require.Equal(t, http.StatusCreated, w.Code)
	venueID := dataField[string](t, res, "id")

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/owners/owner1/venues/"+venueID+"/events", "tok-nadie",
		map[string]any{"nombre": "Fiesta pirata"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEventListingIsFilteredPerActor(t *testing.T) {
	router := newTestRouter()

	w, res := doJSON(t, router, http.MethodPost, "/api/v1/venues", "tok-owner", map[string]any{"nombre": "Aurora"})
	require.Equal(t, http.StatusCreated, w.Code)
	venueID := dataField[string](t, res, "id")

	base := "/api/v1/owners/owner1/venues/" + venueID + "/events"
	w, res = doJSON(t, router, http.MethodPost, base, "tok-owner", map[string]any{"nombre": "Viernes"})
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := dataField[string](t, res, "id")
	w, _ = doJSON(t, router, http.MethodPost, base, "tok-owner", map[string]any{"nombre": "Sabado"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, base+"/"+eventID+"/collaborators", "tok-owner",
		map[string]any{"email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	// The owner sees both events, the collaborator only theirs, a stranger none.
	w, res = doJSON(t, router, http.MethodGet, base, "tok-owner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, res.Total)

	w, res = doJSON(t, router, http.MethodGet, base, "tok-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, res.Total)

	w, res = doJSON(t, router, http.MethodGet, base, "tok-nadie", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, res.Total)
}

func TestTicketQRRendersPNG(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/SOME-CODE/qr", nil)
	req.Header.Set("Authorization", "Bearer tok-owner")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestCollaborationsListing(t *testing.T) {
	router := newTestRouter()

	w, res := doJSON(t, router, http.MethodPost, "/api/v1/venues", "tok-owner", map[string]any{"nombre": "Aurora"})
	require.Equal(t, http.StatusCreated, w.Code)
	venueID := dataField[string](t, res, "id")

	base := "/api/v1/owners/owner1/venues/" + venueID + "/events"
	w, res = doJSON(t, router, http.MethodPost, base, "tok-owner", map[string]any{"nombre": "Viernes"})
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := dataField[string](t, res, "id")

	w, _ = doJSON(t, router, http.MethodPost, base+"/"+eventID+"/collaborators", "tok-owner",
		map[string]any{"email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, res = doJSON(t, router, http.MethodGet, "/api/v1/collaborations", "tok-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, res.Total)

	w, res = doJSON(t, router, http.MethodGet, "/api/v1/collaborations", "tok-nadie", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, res.Total)

	// The effective permission endpoint reflects the recruiting defaults.
	w, res = doJSON(t, router, http.MethodGet, base+"/"+eventID+"/permissions", "tok-ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	perms, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, perms["crearTickets"])
	assert.Equal(t, true, perms["leerQR"])
	assert.Equal(t, false, perms["verReportes"])
}
