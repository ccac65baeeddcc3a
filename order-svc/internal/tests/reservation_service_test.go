package tests

import (
	"context"
	"testing"
	"time"

	"restobar/events"
	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/mocks"
	"restobar/order-svc/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	reservations *mocks.ReservationRepository
	tables       *mocks.TableRepository
	notifier     *mocks.Notifier
	svc          *service.ReservationService
}

func newReservationFixture(t *testing.T) *reservationFixture {
	f := &reservationFixture{
		reservations: mocks.NewReservationRepository(t),
		tables:       mocks.NewTableRepository(t),
		notifier:     mocks.NewNotifier(t),
	}
	f.svc = service.NewReservationService(f.reservations, f.tables, f.notifier, zerolog.Nop())
	return f
}

func validBooking() service.BookingInput {
	return service.BookingInput{
		FullName:        "Maria Clara",
		Email:           "maria@example.com",
		Phone:           "09171234567",
		DineDate:        time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		DineTime:        "18:30",
		ReferenceNumber: "GC-123",
		ProofOfPayment:  "/uploads/reservations/p.png",
	}
}

func TestReservationService_Book(t *testing.T) {
	customer := domain.CurrentUser{ID: 7, Role: domain.RoleUser}
	table := &domain.Table{ID: 2, Name: "Garden 2", Price: dec("500"), ReservationFee: dec("100")}

	tests := []struct {
		name    string
		input   func() service.BookingInput
		setup   func(f *reservationFixture, date string)
		wantErr error
	}{
		{
			name:  "pending booking created",
			input: validBooking,
			setup: func(f *reservationFixture, date string) {
				f.tables.On("GetTable", mock.Anything, 2).Return(table, nil).Once()
				f.reservations.On("IsDateBlocked", mock.Anything, date).Return(false, nil).Once()
				f.reservations.On("CreateReservation", mock.Anything, mock.AnythingOfType("*domain.Reservation")).Return(nil).Once()
				f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
					return e.Type == events.TypeReservationCreated
				})).Once()
			},
		},
		{
			name: "missing proof of payment",
			input: func() service.BookingInput {
				in := validBooking()
				in.ProofOfPayment = ""
				return in
			},
			setup:   func(f *reservationFixture, date string) {},
			wantErr: domain.ErrMissingPayment,
		},
		{
			name: "bad email",
			input: func() service.BookingInput {
				in := validBooking()
				in.Email = "not-an-email"
				return in
			},
			setup:   func(f *reservationFixture, date string) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:  "blocked date",
			input: validBooking,
			setup: func(f *reservationFixture, date string) {
				f.tables.On("GetTable", mock.Anything, 2).Return(table, nil).Maybe()
				f.reservations.On("IsDateBlocked", mock.Anything, date).Return(true, nil).Once()
			},
			wantErr: domain.ErrDateBlocked,
		},
		{
			name:  "unknown table",
			input: validBooking,
			setup: func(f *reservationFixture, date string) {
				f.tables.On("GetTable", mock.Anything, 2).Return(nil, domain.ErrTableNotFound).Once()
				f.reservations.On("IsDateBlocked", mock.Anything, date).Return(false, nil).Maybe()
			},
			wantErr: domain.ErrTableNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newReservationFixture(t)
			input := testCase.input()
			testCase.setup(f, input.DineDate)

			reservation, err := f.svc.Book(context.Background(), customer, 2, input)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ReservationPending, reservation.Status)
			assert.Equal(t, 7, reservation.UserID)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	owner := domain.CurrentUser{ID: 7, Role: domain.RoleUser}

	t.Run("pending reservation cancelled by owner", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, UserID: 7, Status: domain.ReservationPending}, nil).Once()
		f.reservations.On("UpdateReservationStatus", mock.Anything, 9, domain.ReservationPending, domain.ReservationCancelled, (*time.Time)(nil)).
			Return(true, nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.Anything).Once()

		got, err := f.svc.Cancel(context.Background(), owner, 9)

		require.NoError(t, err)
		assert.Equal(t, domain.ReservationCancelled, got.Status)
	})

	t.Run("confirmed reservation cannot be cancelled", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, UserID: 7, Status: domain.ReservationConfirmed}, nil).Once()

		_, err := f.svc.Cancel(context.Background(), owner, 9)

		assert.ErrorIs(t, err, domain.ErrOnlyPendingCancel)
		assert.ErrorIs(t, err, domain.ErrStateConflict)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, UserID: 8, Status: domain.ReservationPending}, nil).Once()

		_, err := f.svc.Cancel(context.Background(), owner, 9)

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestReservationService_Approve(t *testing.T) {
	staff := domain.CurrentUser{ID: 3, Role: domain.RoleStaff}

	t.Run("pending reservation confirmed with table name", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, UserID: 7, TableID: 2, Status: domain.ReservationPending, Email: "maria@example.com"}, nil).Once()
		f.tables.On("GetTable", mock.Anything, 2).Return(&domain.Table{ID: 2, Name: "Garden 2"}, nil).Once()
		f.reservations.On("UpdateReservationStatus", mock.Anything, 9, domain.ReservationPending, domain.ReservationConfirmed, (*time.Time)(nil)).
			Return(true, nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			return e.EmailKind == events.EmailReservationConfirmed && e.Data.TableName == "Garden 2" && e.Recipient == "maria@example.com"
		})).Once()

		got, err := f.svc.Approve(context.Background(), staff, 9)

		require.NoError(t, err)
		assert.Equal(t, domain.ReservationConfirmed, got.Status)
	})

	t.Run("second approval is rejected", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, TableID: 2, Status: domain.ReservationConfirmed}, nil).Once()

		_, err := f.svc.Approve(context.Background(), staff, 9)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("table removed before approval", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, TableID: 2, Status: domain.ReservationPending}, nil).Once()
		f.tables.On("GetTable", mock.Anything, 2).Return(nil, domain.ErrTableNotFound).Once()

		_, err := f.svc.Approve(context.Background(), staff, 9)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("customers cannot approve", func(t *testing.T) {
		f := newReservationFixture(t)
		_, err := f.svc.Approve(context.Background(), domain.CurrentUser{ID: 7, Role: domain.RoleUser}, 9)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestReservationService_MarkDone(t *testing.T) {
	admin := domain.CurrentUser{ID: 1, Role: domain.RoleAdmin}

	t.Run("confirmed reservation finished", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, Status: domain.ReservationConfirmed}, nil).Once()
		f.reservations.On("UpdateReservationStatus", mock.Anything, 9, domain.ReservationConfirmed, domain.ReservationDone, mock.AnythingOfType("*time.Time")).
			Return(true, nil).Once()
		f.notifier.On("Notify", mock.Anything, mock.Anything).Once()

		got, err := f.svc.MarkDone(context.Background(), admin, 9)

		require.NoError(t, err)
		assert.Equal(t, domain.ReservationDone, got.Status)
		assert.NotNil(t, got.CompletedAt)
	})

	t.Run("pending reservation cannot be finished", func(t *testing.T) {
		f := newReservationFixture(t)
		f.reservations.On("GetReservation", mock.Anything, 9).
			Return(&domain.Reservation{ID: 9, Status: domain.ReservationPending}, nil).Once()

		_, err := f.svc.MarkDone(context.Background(), admin, 9)

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("staff cannot finish", func(t *testing.T) {
		f := newReservationFixture(t)
		_, err := f.svc.MarkDone(context.Background(), domain.CurrentUser{ID: 3, Role: domain.RoleStaff}, 9)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestReservationService_BlockDate(t *testing.T) {
	f := newReservationFixture(t)
	f.reservations.On("BlockDate", mock.Anything, mock.MatchedBy(func(b *domain.BlockedDate) bool {
		return b.Date == "2025-12-25" && b.Reason == "Holiday"
	})).Return(nil).Once()

	blocked, err := f.svc.BlockDate(context.Background(), "2025-12-25", " Holiday ")
	require.NoError(t, err)
	assert.Equal(t, "Holiday", blocked.Reason)

	_, err = f.svc.BlockDate(context.Background(), "25/12/2025", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
