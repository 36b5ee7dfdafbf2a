package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/farra-app/farra-api/internal/helpers"
	"github.com/farra-app/farra-api/internal/models"
	"github.com/farra-app/farra-api/internal/monitoring"
	"github.com/farra-app/farra-api/internal/qr"
	"github.com/farra-app/farra-api/internal/realtime"
	"github.com/farra-app/farra-api/internal/validation"
)

// codeReserveAttempts bounds regeneration when a generated code is already
// taken. With timestamp-prefixed 26-char codes a single retry is already
// unheard of.
const codeReserveAttempts = 5

type IssueTicketRequest struct {
	BuyerName  string `json:"nombreCliente" validate:"required,texto"`
	EventName  string `json:"eventoNombre" validate:"required,texto"`
	Schedule   string `json:"fecha" validate:"max=200"`
	Location   string `json:"ubicacion" validate:"max=200"`
	Price      string `json:"precio" validate:"precio"`
	TicketType string `json:"tipoEntrada" validate:"max=100"`
	Quantity   int    `json:"cantidadBoletas" validate:"cantidad"`
}

// QRUploader stores a rendered QR image and returns its public URL. The
// Cloudinary-backed implementation lives in helpers; a nil uploader means
// tickets are issued without a hosted image.
type QRUploader interface {
	Upload(ctx context.Context, png []byte, ticketID string) (string, error)
}

// TicketService issues tickets, moves them through their status values and
// resolves scanned codes back to their location in the tree.
type TicketService struct {
	tickets  models.TicketRepo
	perms    *PermissionService
	bitacora *BitacoraService
	hub      *realtime.Hub
	uploads  QRUploader
	logger   *slog.Logger
}

func NewTicketService(tickets models.TicketRepo, perms *PermissionService, bitacora *BitacoraService, hub *realtime.Hub, uploads QRUploader, logger *slog.Logger) *TicketService {
	return &TicketService{
		tickets:  tickets,
		perms:    perms,
		bitacora: bitacora,
		hub:      hub,
		uploads:  uploads,
		logger:   logger,
	}
}

// IssueTicket sells a ticket: the secure code is reserved in the codeIndex
// before the record is written, so code lookup never needs to scan the tree
// and uniqueness holds globally even under concurrent sales.
func (s *TicketService) IssueTicket(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef, req IssueTicketRequest) (*models.IssuedTicket, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !s.perms.CheckPermission(ctx, actor, ref, models.PermCreateTickets) {
		return nil, ErrPermissionDenied
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ticketID := s.tickets.NewTicketID()
	loc := models.TicketLocation{
		OwnerUID: ref.OwnerUID,
		VenueID:  ref.VenueID,
		EventID:  ref.EventID,
		TicketID: ticketID,
	}

	var code string
	for attempt := 0; ; attempt++ {
		code = helpers.GenerateSecureCode()
		ok, err := s.tickets.ReserveCode(ctx, code, loc)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if attempt+1 >= codeReserveAttempts {
			return nil, fmt.Errorf("could not reserve a unique secure code")
		}
		s.logger.Warn("secure code collision, regenerating", "event_id", ref.EventID)
	}

	price := validation.Sanitize(req.Price)
	if price == "" {
		price = validation.FreePrice
	}
	now := models.NowMillis()
	ticket := &models.Ticket{
		ID:         ticketID,
		SecureCode: code,
		BuyerName:  validation.Sanitize(req.BuyerName),
		EventName:  validation.Sanitize(req.EventName),
		Schedule:   validation.Sanitize(req.Schedule),
		Location:   validation.Sanitize(req.Location),
		Price:      price,
		TicketType: validation.Sanitize(req.TicketType),
		Quantity:   req.Quantity,
		Status:     models.TicketStatusPagado,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if s.uploads != nil {
		if png, err := qr.Encode(code); err == nil {
			url, err := s.uploads.Upload(ctx, png, ticketID)
			if err != nil {
				s.logger.Warn("QR image upload failed, issuing without hosted image", "ticket_id", ticketID, "error", err)
			} else {
				ticket.QRImageURL = url
			}
		}
	} else if dataURL, err := qr.EncodeDataURL(code); err == nil {
		// No CDN configured: embed the image the way the web client did.
		ticket.QRImageURL = dataURL
	}

	if err := s.tickets.PutTicket(ctx, loc, ticket); err != nil {
		return nil, err
	}

	s.record(ctx, actor, ref, models.ActionTicketCreated, map[string]any{
		"ticketId":        ticketID,
		"nombreCliente":   ticket.BuyerName,
		"cantidadBoletas": ticket.Quantity,
	})
	monitoring.TrackTicketIssued(ref.EventID)

	return &models.IssuedTicket{TicketID: ticketID, SecureCode: code, Ticket: *ticket}, nil
}

// UpdateTicketStatus validates the value and the actor's scan permission
// before touching the record; neither check is left to the caller anymore.
// Concurrent updates still race last-write-wins.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef, ticketID, status string) error {
	if actor == nil {
		return ErrNotAuthenticated
	}
	if !validation.Status(status) {
		return ErrInvalidStatus
	}
	if !s.perms.CheckPermission(ctx, actor, ref, models.PermScanQR) {
		return ErrPermissionDenied
	}

	loc := models.TicketLocation{
		OwnerUID: ref.OwnerUID,
		VenueID:  ref.VenueID,
		EventID:  ref.EventID,
		TicketID: ticketID,
	}
	ticket, err := s.tickets.GetTicket(ctx, loc)
	if err != nil {
		return err
	}
	if ticket == nil {
		return ErrNotFound
	}
	if err := s.tickets.UpdateTicketStatus(ctx, loc, models.TicketStatus(status), models.NowMillis()); err != nil {
		return err
	}

	s.record(ctx, actor, ref, models.ActionStatusChanged, map[string]any{
		"ticketId": ticketID,
		"estado":   status,
	})
	return nil
}

// FindTicketByCode resolves a secure code to its ticket and location in one
// index read. An unknown code returns nil, not an error.
func (s *TicketService) FindTicketByCode(ctx context.Context, code string) (*models.FoundTicket, error) {
	start := time.Now()
	defer func() { monitoring.ObserveCodeLookup(time.Since(start)) }()

	loc, err := s.tickets.FindCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}
	ticket, err := s.tickets.GetTicket(ctx, *loc)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		// Index entry without a record: issuance aborted after reserving
		// the code. Treat as unknown.
		s.logger.Warn("dangling code index entry", "ticket_id", loc.TicketID)
		return nil, nil
	}
	return &models.FoundTicket{Ticket: *ticket, TicketLocation: *loc}, nil
}

// Scan is the door flow: resolve the code, then require leerQR on the event
// the ticket actually belongs to. The code alone grants nothing.
func (s *TicketService) Scan(ctx context.Context, actor *helpers.AuthClaims, code string) (*models.FoundTicket, error) {
	if actor == nil {
		monitoring.TrackScan(monitoring.ScanDenied)
		return nil, ErrNotAuthenticated
	}

	found, err := s.FindTicketByCode(ctx, code)
	if err != nil {
		monitoring.TrackScan(monitoring.ScanError)
		return nil, err
	}
	if found == nil {
		monitoring.TrackScan(monitoring.ScanNotFound)
		return nil, nil
	}
	if !s.perms.CheckPermission(ctx, actor, found.EventRef(), models.PermScanQR) {
		monitoring.TrackScan(monitoring.ScanDenied)
		return nil, ErrPermissionDenied
	}

	monitoring.TrackScan(monitoring.ScanFound)
	s.record(ctx, actor, found.EventRef(), models.ActionQRScanned, map[string]any{
		"ticketId": found.TicketID,
		"estado":   found.Ticket.Status,
	})
	return found, nil
}

// GetTickets lists an event's tickets for reporting.
func (s *TicketService) GetTickets(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef) (map[string]models.Ticket, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !s.perms.CheckPermission(ctx, actor, ref, models.PermViewReports) {
		return nil, ErrPermissionDenied
	}
	return s.tickets.GetTickets(ctx, ref)
}

// SubscribeToTickets re-delivers the event's ticket map on every change.
func (s *TicketService) SubscribeToTickets(ctx context.Context, ref models.EventRef, callback func(map[string]models.Ticket)) func() {
	path := models.TicketsPath(ref.OwnerUID, ref.VenueID, ref.EventID)
	return subscribeView(s.hub, path, func() {
		if tickets, err := s.tickets.GetTickets(ctx, ref); err == nil {
			callback(tickets)
		}
	})
}

// record appends to the bitácora; a logging failure never fails the action
// it describes.
func (s *TicketService) record(ctx context.Context, actor *helpers.AuthClaims, ref models.EventRef, action string, details map[string]any) {
	if _, err := s.bitacora.RecordAction(ctx, actor, ref, action, details); err != nil {
		s.logger.Error("failed to record bitacora entry", "action", action, "error", err)
	}
}
