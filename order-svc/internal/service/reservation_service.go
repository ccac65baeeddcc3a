package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"restobar/events"
	"restobar/order-svc/internal/domain"

	"github.com/rs/zerolog"
)

const (
	dineDateLayout = "2006-01-02"
	dineTimeLayout = "15:04"
)

type BookingInput struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DineDate        string `json:"dine_date"`
	DineTime        string `json:"dine_time"`
	ReferenceNumber string `json:"reference_number"`
	ProofOfPayment  string `json:"proof_of_payment"`
}

type ReservationService struct {
	reservations ReservationRepository
	tables       TableRepository
	notifier     Notifier
	logger       zerolog.Logger
	location     *time.Location
	now          func() time.Time
}

func NewReservationService(reservations ReservationRepository, tables TableRepository, notifier Notifier, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		tables:       tables,
		notifier:     notifier,
		logger:       logger,
		location:     time.Local,
		now:          time.Now,
	}
}

func (s *ReservationService) Book(ctx context.Context, user domain.CurrentUser, tableID int, input BookingInput) (*domain.Reservation, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.ReferenceNumber = strings.TrimSpace(input.ReferenceNumber)

	if input.FullName == "" || input.Phone == "" {
		return nil, domain.Validationf("full name and contact number are required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domain.Validationf("a valid email is required")
	}
	if input.ReferenceNumber == "" || input.ProofOfPayment == "" {
		return nil, domain.ErrMissingPayment
	}
	dineIn, err := time.ParseInLocation(dineDateLayout+" "+dineTimeLayout, input.DineDate+" "+input.DineTime, s.location)
	if err != nil {
		return nil, domain.Validationf("dine-in date and time must look like 2025-01-31 and 18:30")
	}

	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.reservations.IsDateBlocked(ctx, input.DineDate)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, domain.ErrDateBlocked
	}

	reservation := &domain.Reservation{
		UserID:          user.ID,
		TableID:         table.ID,
		TableName:       table.Name,
		FullName:        input.FullName,
		Email:           input.Email,
		Phone:           input.Phone,
		DineInDateTime:  dineIn,
		ReferenceNumber: input.ReferenceNumber,
		ProofOfPayment:  input.ProofOfPayment,
		TotalPrice:      table.Price,
		ReservationFee:  table.ReservationFee,
		Status:          domain.ReservationPending,
	}
	if err := s.reservations.CreateReservation(ctx, reservation); err != nil {
		return nil, err
	}

	s.logger.Info().Int("reservation_id", reservation.ID).Int("user_id", user.ID).Msg("reservation booked")

	s.notifier.Notify(ctx, events.Event{
		Type:      events.TypeReservationCreated,
		Realtime:  events.RealtimeNewReservation,
		EmailKind: events.EmailReservationReceived,
		Recipient: reservation.Email,
		Name:      reservation.FullName,
		Message:   fmt.Sprintf("Reservation #%d has been made by %s.", reservation.ID, reservation.FullName),
		Data: events.Payload{
			ReservationID: reservation.ID,
			UserID:        user.ID,
			Status:        string(reservation.Status),
			TableName:     table.Name,
			DineIn:        dineIn.Format(time.RFC3339),
		},
	})

	return reservation, nil
}

func (s *ReservationService) Cancel(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != user.ID {
		return nil, domain.ErrForbidden
	}
	if reservation.Status != domain.ReservationPending {
		return nil, domain.ErrOnlyPendingCancel
	}
	return s.move(ctx, user, reservation, domain.ReservationCancelled, events.EmailReservationCancelled)
}

func (s *ReservationService) Approve(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error) {
	return s.decide(ctx, user, id, domain.ReservationConfirmed, events.EmailReservationConfirmed)
}

func (s *ReservationService) Reject(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error) {
	return s.decide(ctx, user, id, domain.ReservationCancelled, events.EmailReservationRejected)
}

// decide is the one-shot staff approval step; the table must still exist so
// the customer notification can name it.
func (s *ReservationService) decide(ctx context.Context, user domain.CurrentUser, id int, target domain.ReservationStatus, emailKind string) (*domain.Reservation, error) {
	if !user.Is(domain.RoleStaff, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != domain.ReservationPending {
		return nil, fmt.Errorf("%w: reservation is %s", domain.ErrInvalidTransition, reservation.Status)
	}
	table, err := s.tables.GetTable(ctx, reservation.TableID)
	if err != nil {
		return nil, err
	}
	reservation.TableName = table.Name
	return s.move(ctx, user, reservation, target, emailKind)
}

func (s *ReservationService) MarkDone(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error) {
	if !user.Is(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.move(ctx, user, reservation, domain.ReservationDone, events.EmailReservationDone)
}

func (s *ReservationService) move(ctx context.Context, user domain.CurrentUser, reservation *domain.Reservation, target domain.ReservationStatus, emailKind string) (*domain.Reservation, error) {
	from := reservation.Status
	if !from.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
	}

	now := s.now()
	var completedAt *time.Time
	if target == domain.ReservationDone {
		completedAt = &now
	}

	updated, err := s.reservations.UpdateReservationStatus(ctx, reservation.ID, from, target, completedAt)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: reservation %d changed concurrently", domain.ErrInvalidTransition, reservation.ID)
	}
	reservation.Status = target
	reservation.UpdatedAt = now
	if completedAt != nil {
		reservation.CompletedAt = completedAt
	}

	s.logger.Info().
		Int("reservation_id", reservation.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Int("actor_id", user.ID).
		Msg("reservation status changed")

	s.notifier.Notify(ctx, events.Event{
		Type:      events.TypeReservationStatusChanged,
		Realtime:  events.RealtimeReservation,
		EmailKind: emailKind,
		Recipient: reservation.Email,
		Name:      reservation.FullName,
		Message:   fmt.Sprintf("Reservation #%d is now %s.", reservation.ID, target),
		Data: events.Payload{
			ReservationID: reservation.ID,
			UserID:        reservation.UserID,
			Status:        string(target),
			TableName:     reservation.TableName,
			DineIn:        reservation.DineInDateTime.Format(time.RFC3339),
		},
	})

	return reservation, nil
}

func (s *ReservationService) ListForUser(ctx context.Context, userID int) ([]domain.Reservation, error) {
	return s.reservations.ListReservationsByUser(ctx, userID)
}

func (s *ReservationService) List(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return s.reservations.ListReservations(ctx, status)
}

// Calendar lists confirmed and finished bookings for the admin calendar.
func (s *ReservationService) Calendar(ctx context.Context) ([]domain.CalendarEvent, error) {
	var calendar []domain.CalendarEvent
	for _, status := range []domain.ReservationStatus{domain.ReservationConfirmed, domain.ReservationDone} {
		reservations, err := s.reservations.ListReservations(ctx, status)
		if err != nil {
			return nil, err
		}
		for _, r := range reservations {
			calendar = append(calendar, domain.CalendarEvent{
				ReservationID: r.ID,
				Title:         fmt.Sprintf("%s - %s", r.FullName, r.TableName),
				Start:         r.DineInDateTime,
				Status:        string(r.Status),
			})
		}
	}
	return calendar, nil
}

func (s *ReservationService) BlockDate(ctx context.Context, date, reason string) (*domain.BlockedDate, error) {
	if _, err := time.Parse(dineDateLayout, date); err != nil {
		return nil, domain.Validationf("date must look like 2025-01-31")
	}
	blocked := &domain.BlockedDate{Date: date, Reason: strings.TrimSpace(reason)}
	if err := s.reservations.BlockDate(ctx, blocked); err != nil {
		return nil, err
	}
	return blocked, nil
}

func (s *ReservationService) UnblockDate(ctx context.Context, date string) error {
	return s.reservations.UnblockDate(ctx, date)
}

func (s *ReservationService) BlockedDates(ctx context.Context) ([]domain.BlockedDate, error) {
	return s.reservations.ListBlockedDates(ctx)
}
