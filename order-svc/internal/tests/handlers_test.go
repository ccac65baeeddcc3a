package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	httpapi "restobar/order-svc/internal/api/http"
	"restobar/order-svc/internal/auth"
	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/mocks"
	"restobar/order-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTokens = auth.NewTokenManager("test-secret", time.Hour)

func bearer(t *testing.T, id int, role domain.Role) string {
	t.Helper()
	token, err := testTokens.Issue(&domain.Account{ID: id, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(handler *httpapi.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	handler := &httpapi.Handler{Auth: testTokens, Logger: zerolog.Nop()}

	w := serve(handler, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "order-svc", body["service"])
}

func TestCreateProductHandler(t *testing.T) {
	tests := []struct {
		name      string
		auth      string
		body      string
		setupMock func(*mocks.ProductRepository)
		wantCode  int
	}{
		{
			name: "valid request",
			auth: "admin",
			body: `{"name":"Kare-kare","price":"250","category":"meat"}`,
			setupMock: func(m *mocks.ProductRepository) {
				m.On("CreateProduct", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "invalid JSON",
			auth:      "admin",
			body:      `{invalid}`,
			setupMock: func(m *mocks.ProductRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "validation error",
			auth:      "admin",
			body:      `{"name":"","price":"250","category":"meat"}`,
			setupMock: func(m *mocks.ProductRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "database error",
			auth: "admin",
			body: `{"name":"Kare-kare","price":"250","category":"meat"}`,
			setupMock: func(m *mocks.ProductRepository) {
				m.On("CreateProduct", mock.Anything, mock.Anything).Return(assert.AnError).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:      "customer forbidden",
			auth:      "user",
			body:      `{"name":"Kare-kare","price":"250","category":"meat"}`,
			setupMock: func(m *mocks.ProductRepository) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "anonymous",
			body:      `{"name":"Kare-kare","price":"250","category":"meat"}`,
			setupMock: func(m *mocks.ProductRepository) {},
			wantCode:  http.StatusUnauthorized,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := mocks.NewProductRepository(t)
			testCase.setupMock(mockRepo)
			handler := &httpapi.Handler{
				Products: service.NewProductService(mockRepo),
				Auth:     testTokens,
				Logger:   zerolog.Nop(),
			}

			req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewBufferString(testCase.body))
			req.Header.Set("Content-Type", "application/json")
			if testCase.auth != "" {
				req.Header.Set("Authorization", bearer(t, 1, domain.Role(testCase.auth)))
			}

			w := serve(handler, req)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestGetProductHandler(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		mockProd  *domain.Product
		mockError error
		wantCode  int
	}{
		{name: "found", id: "1", mockProd: &domain.Product{ID: 1, Name: "Sinigang"}, wantCode: http.StatusOK},
		{name: "not found", id: "999", mockError: domain.ErrProductNotFound, wantCode: http.StatusNotFound},
		{name: "bad id", id: "abc", wantCode: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := mocks.NewProductRepository(t)
			if testCase.mockProd != nil || testCase.mockError != nil {
				mockRepo.On("GetProduct", mock.Anything, mock.AnythingOfType("int")).Return(testCase.mockProd, testCase.mockError).Once()
			}
			handler := &httpapi.Handler{Products: service.NewProductService(mockRepo), Auth: testTokens, Logger: zerolog.Nop()}

			w := serve(handler, httptest.NewRequest("GET", "/api/products/"+testCase.id, nil))

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestAddToCartHandler(t *testing.T) {
	carts := mocks.NewCartRepository(t)
	products := mocks.NewProductRepository(t)
	products.On("GetProduct", mock.Anything, 1).Return(&domain.Product{ID: 1, Status: domain.ProductAvailable}, nil).Once()
	carts.On("AddCartItem", mock.Anything, 7, 1).Return(nil).Once()
	carts.On("ListCartLines", mock.Anything, 7).Return(cartLines(), nil).Once()
	handler := &httpapi.Handler{Carts: service.NewCartService(carts, products, zerolog.Nop()), Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/api/cart/add", bytes.NewBufferString(`{"product_id":1}`))
	req.Header.Set("Authorization", bearer(t, 7, domain.RoleUser))
	w := serve(handler, req)

	require.Equal(t, http.StatusOK, w.Code)
	var cart domain.Cart
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
	assert.True(t, cart.Gross.Equal(dec("200")))
}

func TestPlaceOrderHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(f *orderFixture)
		wantCode int
	}{
		{
			name: "created",
			body: `{"voucher_code":"","payment":{"method":"gcash","reference_number":"R1","proof_of_payment":"/uploads/proofs/p.png"}}`,
			setup: func(f *orderFixture) {
				f.carts.On("ListCartLines", mock.Anything, 7).Return(cartLines(), nil).Once()
				f.discounts.On("Evaluate", mock.Anything, 7, mock.Anything, mock.Anything, "").Return(nil, nil).Once()
				f.orders.On("CreateOrder", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 11 }).Return(nil).Once()
				f.qr.On("Generate", 11).Return([]byte("png"), nil).Once()
				f.orders.On("SaveQRCode", mock.Anything, 11, mock.Anything).Return(nil).Once()
				f.notifier.On("Notify", mock.Anything, mock.Anything).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing payment",
			body:     `{"payment":{"method":"gcash"}}`,
			setup:    func(f *orderFixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "voucher already used",
			body: `{"voucher_code":"SAVE30","payment":{"method":"gcash","reference_number":"R1","proof_of_payment":"/p.png"}}`,
			setup: func(f *orderFixture) {
				f.carts.On("ListCartLines", mock.Anything, 7).Return(cartLines(), nil).Once()
				f.discounts.On("Evaluate", mock.Anything, 7, mock.Anything, mock.Anything, "SAVE30").
					Return(nil, domain.ErrVoucherAlreadyUsed).Once()
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			testCase.setup(f)
			handler := &httpapi.Handler{Orders: f.svc, Auth: testTokens, Logger: zerolog.Nop()}

			req := httptest.NewRequest("POST", "/api/checkout/place-order", bytes.NewBufferString(testCase.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearer(t, 7, domain.RoleUser))
			w := serve(handler, req)

			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantCode == http.StatusCreated {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.EqualValues(t, 11, body["orderId"])
			}
		})
	}
}

func TestPlaceOrderHandler_MultipartProof(t *testing.T) {
	f := newOrderFixture(t)
	files := mocks.NewFileSaver(t)
	files.On("Save", mock.Anything, mock.AnythingOfType("*multipart.FileHeader"), "proofs").
		Return("/uploads/proofs/abc.png", nil).Once()
	f.carts.On("ListCartLines", mock.Anything, 7).Return(cartLines(), nil).Once()
	f.discounts.On("Evaluate", mock.Anything, 7, mock.Anything, mock.Anything, "").Return(nil, nil).Once()
	f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Payment.ProofOfPayment == "/uploads/proofs/abc.png" && o.Payment.ReferenceNumber == "R1"
	})).Return(nil).Once()
	f.qr.On("Generate", 0).Return(nil, assert.AnError).Once()
	f.notifier.On("Notify", mock.Anything, mock.Anything).Once()
	handler := &httpapi.Handler{Orders: f.svc, Files: files, Auth: testTokens, Logger: zerolog.Nop()}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("payment_method", "gcash"))
	require.NoError(t, form.WriteField("reference_number", "R1"))
	part, err := form.CreateFormFile("proof", "proof.png")
	require.NoError(t, err)
	_, err = io.WriteString(part, "fake-png")
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/checkout/place-order", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, 7, domain.RoleUser))
	w := serve(handler, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTransitionOrderHandler(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.Role
		status   domain.OrderStatus
		body     string
		wantCode int
	}{
		{name: "kitchen processes pending", role: domain.RoleKitchen, status: domain.OrderPending, body: `{"action":"process"}`, wantCode: http.StatusOK},
		{name: "completed order is terminal", role: domain.RoleStaff, status: domain.OrderCompleted, body: `{"action":"cancel"}`, wantCode: http.StatusConflict},
		{name: "unknown action", role: domain.RoleStaff, status: domain.OrderPending, body: `{"action":"fly"}`, wantCode: http.StatusBadRequest},
		{name: "waiter cannot process", role: domain.RoleWaiter, status: domain.OrderPending, body: `{"action":"process"}`, wantCode: http.StatusForbidden},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			f.orders.On("GetOrder", mock.Anything, 5).
				Return(&domain.Order{ID: 5, UserID: intPtr(7), Status: testCase.status}, nil).Maybe()
			if testCase.wantCode == http.StatusOK {
				f.orders.On("UpdateOrderStatus", mock.Anything, 5, testCase.status, domain.OrderProcessing).Return(true, nil).Once()
				f.notifier.On("Notify", mock.Anything, mock.Anything).Once()
			}
			handler := &httpapi.Handler{Orders: f.svc, Auth: testTokens, Logger: zerolog.Nop()}

			req := httptest.NewRequest("POST", "/api/orders/5/transition", bytes.NewBufferString(testCase.body))
			req.Header.Set("Authorization", bearer(t, 2, testCase.role))
			w := serve(handler, req)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestCancelReservationHandler_ConfirmedIsConflict(t *testing.T) {
	f := newReservationFixture(t)
	f.reservations.On("GetReservation", mock.Anything, 9).
		Return(&domain.Reservation{ID: 9, UserID: 7, Status: domain.ReservationConfirmed}, nil).Once()
	handler := &httpapi.Handler{Reservations: f.svc, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/api/reservations/9/cancel", nil)
	req.Header.Set("Authorization", bearer(t, 7, domain.RoleUser))
	w := serve(handler, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "only pending reservations may be cancelled")
}

func TestLoginHandler_RateLimited(t *testing.T) {
	limiter := mocks.NewRateLimiter(t)
	limiter.On("Check", mock.Anything, "juan@example.com").Return(false, 90*time.Second, nil).Once()
	accounts := service.NewAccountService(mocks.NewAccountRepository(t), limiter, testTokens, mocks.NewNotifier(t), zerolog.Nop())
	handler := &httpapi.Handler{Accounts: accounts, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(`{"email":"juan@example.com","password":"x"}`))
	w := serve(handler, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "91", w.Header().Get("Retry-After"))
}

func TestExportOrdersHandler(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.On("ListCompletedOrders", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Order{
		{ID: 1, UserID: intPtr(7), FullName: "Juan", Items: []domain.OrderItem{{Name: "Adobo", Quantity: 2}},
			GrossTotal: dec("240"), NetTotal: dec("240"), DiscountTotal: dec("0"), Status: domain.OrderCompleted},
	}, nil).Once()
	handler := &httpapi.Handler{Orders: f.svc, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/api/admin/orders/export?from=2025-01-01&to=2025-01-31", nil)
	req.Header.Set("Authorization", bearer(t, 1, domain.RoleAdmin))
	w := serve(handler, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "order_id,created_at")
	assert.Contains(t, w.Body.String(), "Adobo x2")
}

func TestExportOrdersHandler_BadDate(t *testing.T) {
	handler := &httpapi.Handler{Orders: newOrderFixture(t).svc, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/api/admin/orders/export?from=yesterday", nil)
	req.Header.Set("Authorization", bearer(t, 1, domain.RoleAdmin))
	w := serve(handler, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeUploadHandler(t *testing.T) {
	dir := t.TempDir()
	for _, folder := range []string{"products", "proofs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, folder), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, folder, "a.png"), []byte("png-bytes"), 0o644))
	}

	tests := []struct {
		name     string
		path     string
		auth     string
		setup    func(m *mocks.UploadRepository)
		wantCode int
	}{
		{name: "catalog image is public", path: "/uploads/products/a.png", setup: func(m *mocks.UploadRepository) {}, wantCode: http.StatusOK},
		{name: "proof needs a token", path: "/uploads/proofs/a.png", setup: func(m *mocks.UploadRepository) {}, wantCode: http.StatusUnauthorized},
		{
			name: "owner reads own proof",
			path: "/uploads/proofs/a.png",
			auth: bearer(t, 7, domain.RoleUser),
			setup: func(m *mocks.UploadRepository) {
				m.On("UploadOwner", mock.Anything, "/uploads/proofs/a.png").Return(7, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name: "other customer cannot read it",
			path: "/uploads/proofs/a.png",
			auth: bearer(t, 8, domain.RoleUser),
			setup: func(m *mocks.UploadRepository) {
				m.On("UploadOwner", mock.Anything, "/uploads/proofs/a.png").Return(7, nil).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "staff reads any proof",
			path:     "/uploads/proofs/a.png",
			auth:     bearer(t, 2, domain.RoleStaff),
			setup:    func(m *mocks.UploadRepository) {},
			wantCode: http.StatusOK,
		},
		{
			name: "orphan file is hidden",
			path: "/uploads/proofs/a.png",
			auth: bearer(t, 7, domain.RoleUser),
			setup: func(m *mocks.UploadRepository) {
				m.On("UploadOwner", mock.Anything, "/uploads/proofs/a.png").Return(0, domain.ErrUploadNotFound).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{name: "unknown folder", path: "/uploads/secrets/a.png", setup: func(m *mocks.UploadRepository) {}, wantCode: http.StatusNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			uploads := mocks.NewUploadRepository(t)
			testCase.setup(uploads)
			handler := &httpapi.Handler{
				Uploads:   service.NewUploadService(uploads),
				UploadDir: dir,
				Auth:      testTokens,
				Logger:    zerolog.Nop(),
			}

			req := httptest.NewRequest("GET", testCase.path, nil)
			if testCase.auth != "" {
				req.Header.Set("Authorization", testCase.auth)
			}
			w := serve(handler, req)

			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantCode == http.StatusOK {
				assert.Equal(t, "png-bytes", w.Body.String())
			}
		})
	}
}

func TestBlockAccountHandler(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	notifier := mocks.NewNotifier(t)
	accounts.On("GetAccount", mock.Anything, 7).Return(&domain.Account{ID: 7, Email: "juan@example.com", Role: domain.RoleUser}, nil).Once()
	accounts.On("SetAccountBlocked", mock.Anything, 7, true).Return(nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Once()
	svc := service.NewAccountService(accounts, mocks.NewRateLimiter(t), testTokens, notifier, zerolog.Nop())
	handler := &httpapi.Handler{Accounts: svc, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/api/admin/accounts/7/block", nil)
	req.Header.Set("Authorization", bearer(t, 1, domain.RoleAdmin))
	w := serve(handler, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body domain.Account
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, body.Blocked)
}

func TestLoginHandler_BlockedAccount(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	accounts := mocks.NewAccountRepository(t)
	limiter := mocks.NewRateLimiter(t)
	limiter.On("Check", mock.Anything, "juan@example.com").Return(true, time.Duration(0), nil).Once()
	accounts.On("GetAccountByEmail", mock.Anything, "juan@example.com").
		Return(&domain.Account{ID: 7, Email: "juan@example.com", PasswordHash: hash, Blocked: true}, nil).Once()
	svc := service.NewAccountService(accounts, limiter, testTokens, mocks.NewNotifier(t), zerolog.Nop())
	handler := &httpapi.Handler{Accounts: svc, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(`{"email":"juan@example.com","password":"secret123"}`))
	w := serve(handler, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "account is blocked")
}

func TestPlaceOrderHandler_RestaurantClosed(t *testing.T) {
	settings := mocks.NewSettingsRepository(t)
	settings.On("GetSettings", mock.Anything).Return(&domain.Settings{IsOpen: false}, nil).Once()
	status := service.NewSettingsService(settings, mocks.NewNotifier(t), zerolog.Nop())
	orders := service.NewOrderService(mocks.NewOrderRepository(t), mocks.NewCartRepository(t), mocks.NewProductRepository(t),
		mocks.NewDiscountEvaluator(t), status, mocks.NewNotifier(t), mocks.NewQRGenerator(t), zerolog.Nop())
	handler := &httpapi.Handler{Orders: orders, Settings: status, Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("POST", "/api/checkout/place-order",
		bytes.NewBufferString(`{"payment":{"method":"gcash","reference_number":"R1","proof_of_payment":"/p.png"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, 7, domain.RoleUser))
	w := serve(handler, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not accepting orders")
}

func TestToggleStatusHandler(t *testing.T) {
	settings := mocks.NewSettingsRepository(t)
	notifier := mocks.NewNotifier(t)
	settings.On("ToggleOpen", mock.Anything).Return(true, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Once()
	handler := &httpapi.Handler{
		Settings: service.NewSettingsService(settings, notifier, zerolog.Nop()),
		Auth:     testTokens,
		Logger:   zerolog.Nop(),
	}

	req := httptest.NewRequest("POST", "/api/admin/status/toggle", nil)
	req.Header.Set("Authorization", bearer(t, 1, domain.RoleAdmin))
	w := serve(handler, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["is_open"])
	assert.Equal(t, "Restaurant is now open", body["message"])
}

func TestAdminReviewsHandler_AdminOnly(t *testing.T) {
	handler := &httpapi.Handler{Auth: testTokens, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/api/admin/reviews", nil)
	req.Header.Set("Authorization", bearer(t, 7, domain.RoleUser))
	w := serve(handler, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
