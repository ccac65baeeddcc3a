package tests

import (
	"context"
	"errors"
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

func TestVoucherService_Create(t *testing.T) {
	future := time.Now().Add(72 * time.Hour)

	tests := []struct {
		name     string
		input    *domain.Voucher
		callRepo bool
		wantErr  bool
	}{
		{name: "code normalised", input: &domain.Voucher{Code: " save30 ", Discount: dec("30"), MinSpend: dec("150"), ExpiryDate: future}, callRepo: true},
		{name: "missing code", input: &domain.Voucher{Discount: dec("30"), ExpiryDate: future}, wantErr: true},
		{name: "non-positive discount", input: &domain.Voucher{Code: "ZERO", Discount: dec("0"), ExpiryDate: future}, wantErr: true},
		{name: "already expired", input: &domain.Voucher{Code: "OLD", Discount: dec("10"), ExpiryDate: time.Now().Add(-time.Hour)}, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			vouchers := mocks.NewVoucherRepository(t)
			svc := service.NewVoucherService(vouchers, zerolog.Nop())
			if testCase.callRepo {
				vouchers.On("CreateVoucher", mock.Anything, testCase.input, true).Return(nil).Once()
			}

			err := svc.Create(context.Background(), testCase.input, true)

			if testCase.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SAVE30", testCase.input.Code)
		})
	}
}

func TestVoucherService_Update(t *testing.T) {
	future := time.Now().Add(72 * time.Hour)

	tests := []struct {
		name    string
		input   *domain.Voucher
		repoErr error
		wantErr error
	}{
		{name: "updated", input: &domain.Voucher{ID: 3, Code: "save40", Discount: dec("40"), ExpiryDate: future}},
		{name: "code clash", input: &domain.Voucher{ID: 3, Code: "TAKEN", Discount: dec("40"), ExpiryDate: future}, repoErr: domain.ErrVoucherCodeTaken, wantErr: domain.ErrVoucherCodeTaken},
		{name: "missing voucher", input: &domain.Voucher{ID: 9, Code: "GONE", Discount: dec("40"), ExpiryDate: future}, repoErr: domain.ErrVoucherNotFound, wantErr: domain.ErrNotFound},
		{name: "invalid terms", input: &domain.Voucher{ID: 3, Code: "NEG", Discount: dec("-1"), ExpiryDate: future}, wantErr: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			vouchers := mocks.NewVoucherRepository(t)
			svc := service.NewVoucherService(vouchers, zerolog.Nop())
			if !errors.Is(testCase.wantErr, domain.ErrValidation) {
				vouchers.On("UpdateVoucher", mock.Anything, testCase.input).Return(testCase.repoErr).Once()
			}

			err := svc.Update(context.Background(), testCase.input)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SAVE40", testCase.input.Code)
		})
	}
}

func TestVoucherService_Delete_RedeemedStays(t *testing.T) {
	vouchers := mocks.NewVoucherRepository(t)
	vouchers.On("DeleteVoucher", mock.Anything, 3).Return(domain.ErrVoucherInUse).Once()
	svc := service.NewVoucherService(vouchers, zerolog.Nop())

	err := svc.Delete(context.Background(), 3)

	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestVoucherService_Claim(t *testing.T) {
	live := &domain.Voucher{ID: 3, Code: "SAVE30", ExpiryDate: time.Now().Add(time.Hour)}
	expired := &domain.Voucher{ID: 3, Code: "SAVE30", ExpiryDate: time.Now().Add(-time.Hour)}

	tests := []struct {
		name    string
		voucher *domain.Voucher
		getErr  error
		claimed *bool
		wantErr error
	}{
		{name: "first claim", voucher: live, claimed: boolPtr(true)},
		{name: "second claim", voucher: live, claimed: boolPtr(false), wantErr: domain.ErrVoucherAlreadyClaimed},
		{name: "expired", voucher: expired, wantErr: domain.ErrVoucherExpired},
		{name: "unknown voucher", getErr: domain.ErrVoucherNotFound, wantErr: domain.ErrNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			vouchers := mocks.NewVoucherRepository(t)
			svc := service.NewVoucherService(vouchers, zerolog.Nop())
			vouchers.On("GetVoucher", mock.Anything, 3).Return(testCase.voucher, testCase.getErr).Once()
			if testCase.claimed != nil {
				vouchers.On("ClaimVoucher", mock.Anything, 3, 7).Return(*testCase.claimed, nil).Once()
			}

			err := svc.Claim(context.Background(), 7, 3)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func TestPWDService_Submit(t *testing.T) {
	t.Run("first request is pending", func(t *testing.T) {
		requests := mocks.NewPWDRepository(t)
		svc := service.NewPWDService(requests, zerolog.Nop())
		requests.On("HasPWDRequest", mock.Anything, 7, domain.PWDPending).Return(false, nil).Once()
		requests.On("CreatePWDRequest", mock.Anything, mock.AnythingOfType("*domain.PWDRequest")).Return(nil).Once()

		req, err := svc.Submit(context.Background(), 7, "/uploads/pwd/id.png")

		require.NoError(t, err)
		assert.Equal(t, domain.PWDPending, req.Status)
	})

	t.Run("one pending request at a time", func(t *testing.T) {
		requests := mocks.NewPWDRepository(t)
		svc := service.NewPWDService(requests, zerolog.Nop())
		requests.On("HasPWDRequest", mock.Anything, 7, domain.PWDPending).Return(true, nil).Once()

		_, err := svc.Submit(context.Background(), 7, "/uploads/pwd/id.png")

		assert.ErrorIs(t, err, domain.ErrPWDRequestPending)
	})

	t.Run("document required", func(t *testing.T) {
		svc := service.NewPWDService(mocks.NewPWDRepository(t), zerolog.Nop())
		_, err := svc.Submit(context.Background(), 7, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPWDService_Review(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.PWDStatus
		approve    bool
		updated    bool
		wantStatus domain.PWDStatus
		wantErr    error
	}{
		{name: "approve", status: domain.PWDPending, approve: true, updated: true, wantStatus: domain.PWDApproved},
		{name: "reject", status: domain.PWDPending, approve: false, updated: true, wantStatus: domain.PWDRejected},
		{name: "already decided", status: domain.PWDApproved, approve: false, wantErr: domain.ErrStateConflict},
		{name: "lost race", status: domain.PWDPending, approve: true, updated: false, wantErr: domain.ErrStateConflict},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			requests := mocks.NewPWDRepository(t)
			svc := service.NewPWDService(requests, zerolog.Nop())
			requests.On("GetPWDRequest", mock.Anything, 4).
				Return(&domain.PWDRequest{ID: 4, UserID: 7, Status: testCase.status}, nil).Once()
			if testCase.status == domain.PWDPending {
				target := domain.PWDRejected
				if testCase.approve {
					target = domain.PWDApproved
				}
				requests.On("UpdatePWDStatus", mock.Anything, 4, domain.PWDPending, target).Return(testCase.updated, nil).Once()
			}

			req, err := svc.Review(context.Background(), 4, testCase.approve)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantStatus, req.Status)
		})
	}
}

func TestReviewService_Submit(t *testing.T) {
	tests := []struct {
		name      string
		review    domain.Review
		setupMock func(*mocks.ReviewRepository, *mocks.ReviewCache, *mocks.Notifier)
		wantErr   error
	}{
		{
			name:   "new review",
			review: domain.Review{UserID: 7, OrderID: 5, Rating: 5, Comment: "Masarap!"},
			setupMock: func(repo *mocks.ReviewRepository, cache *mocks.ReviewCache, n *mocks.Notifier) {
				repo.On("IsOrderReviewable", mock.Anything, 5, 7).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 5, 7).Return("review:5:7").Once()
				cache.On("Exists", mock.Anything, "review:5:7").Return(false, nil).Once()
				repo.On("GetExistingReviewID", mock.Anything, 5, 7).Return(0, nil).Once()
				repo.On("InsertReview", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil).Once()
				cache.On("SetMarker", mock.Anything, "review:5:7").Return(nil).Once()
				n.On("Notify", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
					return e.Type == events.TypeReviewCreated && e.Data.Rating == 5
				})).Once()
			},
		},
		{
			name:      "rating out of range",
			review:    domain.Review{UserID: 7, OrderID: 5, Rating: 6, Comment: "x"},
			setupMock: func(*mocks.ReviewRepository, *mocks.ReviewCache, *mocks.Notifier) {},
			wantErr:   domain.ErrValidation,
		},
		{
			name:   "order not completed",
			review: domain.Review{UserID: 7, OrderID: 5, Rating: 4, Comment: "ok"},
			setupMock: func(repo *mocks.ReviewRepository, cache *mocks.ReviewCache, n *mocks.Notifier) {
				repo.On("IsOrderReviewable", mock.Anything, 5, 7).Return(false, nil).Once()
			},
			wantErr: domain.ErrOrderNotReviewable,
		},
		{
			name:   "cached duplicate",
			review: domain.Review{UserID: 7, OrderID: 5, Rating: 4, Comment: "ok"},
			setupMock: func(repo *mocks.ReviewRepository, cache *mocks.ReviewCache, n *mocks.Notifier) {
				repo.On("IsOrderReviewable", mock.Anything, 5, 7).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 5, 7).Return("review:5:7").Once()
				cache.On("Exists", mock.Anything, "review:5:7").Return(true, nil).Once()
			},
			wantErr: domain.ErrDuplicateReview,
		},
		{
			name:   "stored duplicate warms the cache",
			review: domain.Review{UserID: 7, OrderID: 5, Rating: 4, Comment: "ok"},
			setupMock: func(repo *mocks.ReviewRepository, cache *mocks.ReviewCache, n *mocks.Notifier) {
				repo.On("IsOrderReviewable", mock.Anything, 5, 7).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", 5, 7).Return("review:5:7").Once()
				cache.On("Exists", mock.Anything, "review:5:7").Return(false, nil).Once()
				repo.On("GetExistingReviewID", mock.Anything, 5, 7).Return(12, nil).Once()
				cache.On("SetMarker", mock.Anything, "review:5:7").Return(nil).Once()
			},
			wantErr: domain.ErrDuplicateReview,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewReviewRepository(t)
			cache := mocks.NewReviewCache(t)
			notifier := mocks.NewNotifier(t)
			testCase.setupMock(repo, cache, notifier)
			svc := service.NewReviewService(repo, cache, notifier)

			review := testCase.review
			err := svc.Submit(context.Background(), &review)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
