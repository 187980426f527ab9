package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/events"
	"hotelops/internal/metrics"
	"hotelops/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TicketService owns the ticket lifecycle: open on guest request, close
// exactly once with SLA-compliance metadata.
type TicketService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	notify   domain.NotifyEnqueuer
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewTicketService(store domain.Store, eventBus domain.EventPublisher, notify domain.NotifyEnqueuer, logger *zerolog.Logger) *TicketService {
	return &TicketService{
		store:    store,
		eventBus: eventBus,
		notify:   notify,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, hotelID, serviceKey, room string) (*models.Ticket, error) {
	if hotelID == "" {
		return nil, ErrHotelRequired
	}
	if serviceKey == "" {
		return nil, ErrServiceKeyRequired
	}

	ticket := &models.Ticket{
		ID:         uuid.NewString(),
		HotelID:    hotelID,
		ServiceKey: serviceKey,
		Room:       room,
		Status:     models.TicketOpen,
		CreatedAt:  s.now(),
	}
	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishTicketEvent(events.EventTicketCreated, ticket)
	return ticket, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.store.GetTicket(ctx, id)
}

// CloseTicket transitions a ticket to closed exactly once. Re-closing a
// closed ticket returns the stored result unchanged; nothing is ever
// recomputed. SLA resolution falls back to the 30-minute default when no
// active service row matches.
func (s *TicketService) CloseTicket(ctx context.Context, id string) (*models.CloseResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status == models.TicketClosed {
		result := &models.CloseResult{}
		if ticket.MinutesToClose != nil {
			result.MinutesToClose = *ticket.MinutesToClose
		}
		if ticket.OnTime != nil {
			result.OnTime = *ticket.OnTime
		}
		return result, nil
	}

	sla, err := s.store.GetServiceSLA(ctx, ticket.HotelID, ticket.ServiceKey)
	if errors.Is(err, database.ErrServiceNotFound) {
		sla = models.DefaultSLAMinutes
	} else if err != nil {
		return nil, err
	}

	now := s.now()
	minutes := closureMinutes(ticket.CreatedAt, now)
	onTime := minutes <= sla

	if err := s.store.CloseTicket(ctx, id, now, minutes, onTime); err != nil {
		return nil, err
	}
	metrics.IncTicketClosed(onTime)

	closed := *ticket
	closed.Status = models.TicketClosed
	closed.ClosedAt = &now
	closed.MinutesToClose = &minutes
	closed.OnTime = &onTime
	s.publishTicketEvent(events.EventTicketClosed, &closed)
	s.enqueueClosedNotice(ctx, &closed)

	return &models.CloseResult{MinutesToClose: minutes, OnTime: onTime}, nil
}

func (s *TicketService) GetTicketsByHotel(ctx context.Context, hotelID string, limit int) ([]models.Ticket, error) {
	if hotelID == "" {
		return nil, ErrHotelRequired
	}
	return s.store.GetTicketsByHotel(ctx, hotelID, limit)
}

// closureMinutes rounds the open duration to whole minutes, clamped at
// zero so clock skew can never produce a negative value.
func closureMinutes(createdAt, now time.Time) int64 {
	minutes := int64(now.Sub(createdAt).Round(time.Minute) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}

func (s *TicketService) publishTicketEvent(eventType string, ticket *models.Ticket) {
	if s.eventBus == nil {
		return
	}

	payload := events.TicketEventPayload{
		TicketID:       ticket.ID,
		HotelID:        ticket.HotelID,
		ServiceKey:     ticket.ServiceKey,
		Room:           ticket.Room,
		Status:         ticket.Status,
		MinutesToClose: ticket.MinutesToClose,
		OnTime:         ticket.OnTime,
		ClosedAt:       ticket.ClosedAt,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("ticket_id", ticket.ID).Msg("publish event error")
	}
}

func (s *TicketService) enqueueClosedNotice(ctx context.Context, ticket *models.Ticket) {
	if s.notify == nil {
		return
	}

	outcome := "late"
	if ticket.OnTime != nil && *ticket.OnTime {
		outcome = "on time"
	}
	text := fmt.Sprintf("Request %s for room %s resolved %s (%d min).",
		ticket.ServiceKey, ticket.Room, outcome, *ticket.MinutesToClose)

	err := s.notify.Enqueue(ctx, "ticket_closed", ticket.ID, map[string]interface{}{
		"title": "Request resolved",
		"text":  text,
		"meta":  map[string]string{"hotel_id": ticket.HotelID, "ticket_id": ticket.ID},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("ticket_id", ticket.ID).Msg("notify enqueue error")
	}
}
