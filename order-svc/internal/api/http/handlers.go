package httpapi

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"restobar/order-svc/internal/auth"
	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const maxUploadSize = 10 << 20

type Authenticator interface {
	Middleware(roles ...domain.Role) func(http.Handler) http.Handler
}

type FileSaver interface {
	Save(file multipart.File, header *multipart.FileHeader, folder string) (string, error)
}

type Handler struct {
	Products     service.ProductServiceInterface
	Tables       service.TableServiceInterface
	Carts        service.CartServiceInterface
	Orders       service.OrderServiceInterface
	Reservations service.ReservationServiceInterface
	Vouchers     service.VoucherServiceInterface
	PWD          service.PWDServiceInterface
	Reviews      service.ReviewServiceInterface
	Accounts     service.AccountServiceInterface
	Settings     service.SettingsServiceInterface
	Uploads      service.UploadServiceInterface
	Auth         Authenticator
	Files        FileSaver
	UploadDir    string
	Logger       zerolog.Logger
}

var (
	staffRoles   = []domain.Role{domain.RoleStaff, domain.RoleKitchen, domain.RoleAdmin}
	managerRoles = []domain.Role{domain.RoleStaff, domain.RoleAdmin}
	waiterRoles  = []domain.Role{domain.RoleWaiter, domain.RoleStaff, domain.RoleAdmin}
)

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.Handle("/api/admin/accounts", h.authed(h.createStaff, domain.RoleAdmin)).Methods("POST")
	r.Handle("/api/admin/accounts", h.authed(h.getAccounts, domain.RoleAdmin)).Methods("GET")
	r.Handle("/api/admin/accounts/{id}", h.authed(h.updateStaff, domain.RoleAdmin)).Methods("PUT")
	r.Handle("/api/admin/accounts/{id}", h.authed(h.deleteStaff, domain.RoleAdmin)).Methods("DELETE")
	r.Handle("/api/admin/accounts/{id}/{action:block|unblock}", h.authed(h.setAccountBlocked, domain.RoleAdmin)).Methods("POST")

	r.HandleFunc("/api/status", h.getStatus).Methods("GET")
	r.Handle("/api/admin/status/toggle", h.authed(h.toggleStatus, domain.RoleAdmin)).Methods("POST")
	r.HandleFunc("/api/settings", h.getSettings).Methods("GET")
	r.Handle("/api/admin/settings", h.authed(h.updateSiteName, domain.RoleAdmin)).Methods("PUT")
	r.Handle("/api/admin/settings/{kind:logo|order-qr|reservation-qr}", h.authed(h.uploadSettingsImage, domain.RoleAdmin)).Methods("POST")

	r.Handle("/uploads/{folder:proofs|reservations|pwd}/{name}", h.authed(h.serveUpload)).Methods("GET", "HEAD")
	r.HandleFunc("/uploads/{folder:products|tables|settings}/{name}", h.serveUpload).Methods("GET", "HEAD")

	r.HandleFunc("/api/products", h.getProducts).Methods("GET")
	r.HandleFunc("/api/products/{id}", h.getProduct).Methods("GET")
	r.Handle("/api/admin/products", h.authed(h.createProduct, domain.RoleAdmin)).Methods("POST")
	r.Handle("/api/admin/products/{id}", h.authed(h.updateProduct, domain.RoleAdmin)).Methods("PUT")
	r.Handle("/api/admin/products/{id}", h.authed(h.deleteProduct, domain.RoleAdmin)).Methods("DELETE")
	r.Handle("/api/admin/products/{id}/image", h.authed(h.uploadProductImage, domain.RoleAdmin)).Methods("POST")

	r.HandleFunc("/api/tables", h.getTables).Methods("GET")
	r.HandleFunc("/api/tables/{id}", h.getTable).Methods("GET")
	r.Handle("/api/admin/tables", h.authed(h.createTable, domain.RoleAdmin)).Methods("POST")
	r.Handle("/api/admin/tables/{id}", h.authed(h.updateTable, domain.RoleAdmin)).Methods("PUT")
	r.Handle("/api/admin/tables/{id}", h.authed(h.deleteTable, domain.RoleAdmin)).Methods("DELETE")
	r.Handle("/api/admin/tables/{id}/image", h.authed(h.uploadTableImage, domain.RoleAdmin)).Methods("POST")

	r.Handle("/api/cart", h.authed(h.getCart, domain.RoleUser)).Methods("GET")
	r.Handle("/api/cart", h.authed(h.clearCart, domain.RoleUser)).Methods("DELETE")
	r.Handle("/api/cart/add", h.authed(h.addToCart, domain.RoleUser)).Methods("POST")
	r.Handle("/api/cart/increase", h.authed(h.increaseCartItem, domain.RoleUser)).Methods("POST")
	r.Handle("/api/cart/decrease", h.authed(h.decreaseCartItem, domain.RoleUser)).Methods("POST")

	r.Handle("/api/checkout/preview", h.authed(h.previewCheckout, domain.RoleUser)).Methods("GET")
	r.Handle("/api/checkout/place-order", h.authed(h.placeOrder, domain.RoleUser)).Methods("POST")
	r.Handle("/api/orders", h.authed(h.getMyOrders)).Methods("GET")
	r.Handle("/api/orders/{id}", h.authed(h.getOrder)).Methods("GET")
	r.Handle("/api/orders/{id}/qrcode", h.authed(h.getOrderQRCode)).Methods("GET")
	r.Handle("/api/orders/{id}/transition", h.authed(h.transitionOrder)).Methods("POST")
	r.Handle("/api/orders/{id}/reviews", h.authed(h.submitReview, domain.RoleUser)).Methods("POST")
	r.Handle("/api/reviews", h.authed(h.getMyReviews, domain.RoleUser)).Methods("GET")
	r.Handle("/api/admin/reviews", h.authed(h.getAllReviews, domain.RoleAdmin)).Methods("GET")
	r.Handle("/api/staff/orders", h.authed(h.getOrdersByStatus, staffRoles...)).Methods("GET")
	r.Handle("/api/staff/orders/pending-count", h.authed(h.getPendingCount, staffRoles...)).Methods("GET")
	r.Handle("/api/waiter/orders", h.authed(h.placeWalkInOrder, waiterRoles...)).Methods("POST")
	r.Handle("/api/admin/orders/export", h.authed(h.exportOrders, domain.RoleAdmin)).Methods("GET")

	r.Handle("/api/reservations", h.authed(h.getMyReservations)).Methods("GET")
	r.Handle("/api/reservations/book/{tableId}", h.authed(h.bookReservation, domain.RoleUser)).Methods("POST")
	r.Handle("/api/reservations/{id}/cancel", h.authed(h.cancelReservation)).Methods("POST")
	r.Handle("/api/reservations/{id}/approve", h.authed(h.approveReservation, managerRoles...)).Methods("POST")
	r.Handle("/api/reservations/{id}/reject", h.authed(h.rejectReservation, managerRoles...)).Methods("POST")
	r.Handle("/api/reservations/{id}/done", h.authed(h.markReservationDone, domain.RoleAdmin)).Methods("POST")
	r.Handle("/api/staff/reservations", h.authed(h.getReservations, managerRoles...)).Methods("GET")
	r.Handle("/api/admin/calendar", h.authed(h.getCalendar, domain.RoleAdmin)).Methods("GET")
	r.Handle("/api/admin/blocked-dates", h.authed(h.getBlockedDates, managerRoles...)).Methods("GET")
	r.Handle("/api/admin/blocked-dates", h.authed(h.blockDate, domain.RoleAdmin)).Methods("POST")
	r.Handle("/api/admin/blocked-dates/{date}", h.authed(h.unblockDate, domain.RoleAdmin)).Methods("DELETE")

	r.Handle("/api/vouchers", h.authed(h.getVouchers, domain.RoleUser)).Methods("GET")
	r.Handle("/api/vouchers/{id}/claim", h.authed(h.claimVoucher, domain.RoleUser)).Methods("POST")
	r.Handle("/api/admin/vouchers", h.authed(h.createVoucher, domain.RoleAdmin)).Methods("POST")
	r.Handle("/api/admin/vouchers/{id}", h.authed(h.updateVoucher, domain.RoleAdmin)).Methods("PUT")
	r.Handle("/api/admin/vouchers/{id}", h.authed(h.deleteVoucher, domain.RoleAdmin)).Methods("DELETE")

	r.Handle("/api/pwd-requests", h.authed(h.submitPWDRequest, domain.RoleUser)).Methods("POST")
	r.Handle("/api/admin/pwd-requests", h.authed(h.getPendingPWDRequests, domain.RoleAdmin)).Methods("GET")
	r.Handle("/api/admin/pwd-requests/{id}/{decision:approve|reject}", h.authed(h.reviewPWDRequest, domain.RoleAdmin)).Methods("POST")
}

func (h *Handler) authed(fn http.HandlerFunc, roles ...domain.Role) http.Handler {
	return h.Auth.Middleware(roles...)(fn)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rateErr *domain.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())+1))
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrStateConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		h.Logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func currentUser(r *http.Request) domain.CurrentUser {
	user, _ := auth.UserFrom(r.Context())
	return user
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// saveUpload stores the named multipart file under folder. A missing file
// yields an empty path and no error.
func (h *Handler) saveUpload(r *http.Request, field, folder string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", domain.Validationf("invalid %s upload", field)
	}
	defer file.Close()

	return h.Files.Save(file, header, folder)
}
