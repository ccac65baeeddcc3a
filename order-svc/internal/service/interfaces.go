package service

import (
	"context"
	"io"
	"time"

	"restobar/events"
	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/pricing"

	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int) (int64, error)
	UpdateProductImage(ctx context.Context, id int, imageURL string) error
}

type TableRepository interface {
	CreateTable(ctx context.Context, table *domain.Table) error
	ListTables(ctx context.Context) ([]domain.Table, error)
	GetTable(ctx context.Context, id int) (*domain.Table, error)
	UpdateTable(ctx context.Context, table *domain.Table) error
	DeleteTable(ctx context.Context, id int) (int64, error)
	UpdateTableImage(ctx context.Context, id int, imageURL string) error
}

type CartRepository interface {
	AddCartItem(ctx context.Context, userID, productID int) error
	IncreaseCartItem(ctx context.Context, userID, productID int) error
	DecreaseCartItem(ctx context.Context, userID, productID int) error
	ClearCart(ctx context.Context, userID int) error
	ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error)
}

type OrderRepository interface {
	// CreateOrder persists the order, redeems its voucher and clears the
	// owner's cart in one transaction.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	CountOrdersByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
	UpdateOrderStatus(ctx context.Context, id int, from, to domain.OrderStatus) (bool, error)
	LastPWDOrderAt(ctx context.Context, userID int) (*time.Time, error)
	ListCompletedOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	SaveQRCode(ctx context.Context, orderID int, qr []byte) error
	GetQRCode(ctx context.Context, orderID int) ([]byte, error)
}

type VoucherRepository interface {
	CreateVoucher(ctx context.Context, voucher *domain.Voucher, claimForAll bool) error
	GetVoucher(ctx context.Context, id int) (*domain.Voucher, error)
	GetVoucherByCode(ctx context.Context, code string) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher *domain.Voucher) error
	DeleteVoucher(ctx context.Context, id int) error
	ClaimVoucher(ctx context.Context, voucherID, userID int) (bool, error)
	VoucherState(ctx context.Context, voucherID, userID int) (claimed, redeemed bool, err error)
	ListVouchersForUser(ctx context.Context, userID int) ([]domain.VoucherState, error)
}

type PWDRepository interface {
	CreatePWDRequest(ctx context.Context, req *domain.PWDRequest) error
	HasPWDRequest(ctx context.Context, userID int, status domain.PWDStatus) (bool, error)
	UpdatePWDStatus(ctx context.Context, id int, from, to domain.PWDStatus) (bool, error)
	GetPWDRequest(ctx context.Context, id int) (*domain.PWDRequest, error)
	ListPWDRequests(ctx context.Context, status domain.PWDStatus) ([]domain.PWDRequest, error)
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation *domain.Reservation) error
	GetReservation(ctx context.Context, id int) (*domain.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID int) ([]domain.Reservation, error)
	ListReservations(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int, from, to domain.ReservationStatus, completedAt *time.Time) (bool, error)
	IsDateBlocked(ctx context.Context, date string) (bool, error)
	BlockDate(ctx context.Context, blocked *domain.BlockedDate) error
	UnblockDate(ctx context.Context, date string) error
	ListBlockedDates(ctx context.Context) ([]domain.BlockedDate, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetAccount(ctx context.Context, id int) (*domain.Account, error)
	ListAccounts(ctx context.Context, roles []domain.Role) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	DeleteAccount(ctx context.Context, id int) error
	SetAccountBlocked(ctx context.Context, id int, blocked bool) error
}

type ReviewRepository interface {
	IsOrderReviewable(ctx context.Context, orderID, userID int) (bool, error)
	GetExistingReviewID(ctx context.Context, orderID, userID int) (int, error)
	InsertReview(ctx context.Context, review *domain.Review) error
	ListReviewsByUser(ctx context.Context, userID int) ([]domain.Review, error)
	ListReviews(ctx context.Context) ([]domain.ReviewDetail, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	ToggleOpen(ctx context.Context) (bool, error)
	UpdateSettingsImage(ctx context.Context, kind domain.SettingsImage, url string) error
	UpdateSiteName(ctx context.Context, name string) error
}

type UploadRepository interface {
	UploadOwner(ctx context.Context, path string) (int, error)
}

// StatusReader reports whether customer checkout is currently allowed.
type StatusReader interface {
	IsOpen(ctx context.Context) (bool, error)
}

type ReviewCache interface {
	ReviewMarkerKey(orderID, userID int) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

// RateLimiter guards login attempts per key.
type RateLimiter interface {
	Check(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Notifier delivers an event best-effort; it never reports failure.
type Notifier interface {
	Notify(ctx context.Context, event events.Event)
}

type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
}

type DiscountEvaluator interface {
	Evaluate(ctx context.Context, userID int, gross decimal.Decimal, now time.Time, voucherCode string) ([]domain.Discount, error)
}

type ProductServiceInterface interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, category domain.Category) ([]domain.Product, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int) (int64, error)
	UpdateImage(ctx context.Context, id int, imageURL string) error
}

type TableServiceInterface interface {
	Create(ctx context.Context, table *domain.Table) error
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, id int) (*domain.Table, error)
	Update(ctx context.Context, table *domain.Table) error
	Delete(ctx context.Context, id int) (int64, error)
	UpdateImage(ctx context.Context, id int, imageURL string) error
}

type CartServiceInterface interface {
	Add(ctx context.Context, userID, productID int) error
	Increase(ctx context.Context, userID, productID int) error
	Decrease(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
	Items(ctx context.Context, userID int) (*domain.Cart, error)
}

type OrderServiceInterface interface {
	Preview(ctx context.Context, user domain.CurrentUser, voucherCode string) (*Checkout, error)
	PlaceOrder(ctx context.Context, user domain.CurrentUser, input PlaceOrderInput) (*domain.Order, error)
	PlaceWalkInOrder(ctx context.Context, user domain.CurrentUser, input WalkInInput) (*domain.Order, error)
	Transition(ctx context.Context, user domain.CurrentUser, orderID int, action domain.OrderAction) (*domain.Order, error)
	Get(ctx context.Context, user domain.CurrentUser, orderID int) (*domain.Order, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	PendingCount(ctx context.Context) (int, error)
	QRCode(ctx context.Context, user domain.CurrentUser, orderID int) ([]byte, error)
	QRLink(orderID int) string
	ExportCompleted(ctx context.Context, from, to time.Time, w io.Writer) error
}

type ReservationServiceInterface interface {
	Book(ctx context.Context, user domain.CurrentUser, tableID int, input BookingInput) (*domain.Reservation, error)
	Cancel(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error)
	Approve(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error)
	Reject(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error)
	MarkDone(ctx context.Context, user domain.CurrentUser, id int) (*domain.Reservation, error)
	ListForUser(ctx context.Context, userID int) ([]domain.Reservation, error)
	List(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	Calendar(ctx context.Context) ([]domain.CalendarEvent, error)
	BlockDate(ctx context.Context, date, reason string) (*domain.BlockedDate, error)
	UnblockDate(ctx context.Context, date string) error
	BlockedDates(ctx context.Context) ([]domain.BlockedDate, error)
}

type VoucherServiceInterface interface {
	Create(ctx context.Context, voucher *domain.Voucher, claimForAll bool) error
	Update(ctx context.Context, voucher *domain.Voucher) error
	Delete(ctx context.Context, id int) error
	Claim(ctx context.Context, userID, voucherID int) error
	ListForUser(ctx context.Context, userID int) ([]domain.VoucherState, error)
}

type PWDServiceInterface interface {
	Submit(ctx context.Context, userID int, documentPath string) (*domain.PWDRequest, error)
	Review(ctx context.Context, id int, approve bool) (*domain.PWDRequest, error)
	ListPending(ctx context.Context) ([]domain.PWDRequest, error)
}

type ReviewServiceInterface interface {
	Submit(ctx context.Context, review *domain.Review) error
	ListForUser(ctx context.Context, userID int) ([]domain.Review, error)
	List(ctx context.Context) ([]domain.ReviewDetail, error)
}

type AccountServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	CreateStaff(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error)
	UpdateStaff(ctx context.Context, id int, name, email string, role domain.Role) (*domain.Account, error)
	DeleteStaff(ctx context.Context, actor domain.CurrentUser, id int) error
	List(ctx context.Context, roles ...domain.Role) ([]domain.Account, error)
	SetBlocked(ctx context.Context, actor domain.CurrentUser, id int, blocked bool) (*domain.Account, error)
}

type UploadServiceInterface interface {
	Authorize(ctx context.Context, user domain.CurrentUser, folder, path string) error
}

type SettingsServiceInterface interface {
	Get(ctx context.Context) (*domain.Settings, error)
	IsOpen(ctx context.Context) (bool, error)
	ToggleOpen(ctx context.Context) (bool, error)
	UpdateImage(ctx context.Context, kind domain.SettingsImage, url string) (*domain.Settings, error)
	UpdateSiteName(ctx context.Context, name string) (*domain.Settings, error)
}

// Checkout is the priced view of the cart before an order is placed.
type Checkout struct {
	Items     []domain.OrderItem `json:"items"`
	Discounts []domain.Discount  `json:"discounts"`
	Totals    pricing.Totals     `json:"totals"`
}

var (
	_ ProductServiceInterface     = (*ProductService)(nil)
	_ TableServiceInterface       = (*TableService)(nil)
	_ CartServiceInterface        = (*CartService)(nil)
	_ OrderServiceInterface       = (*OrderService)(nil)
	_ ReservationServiceInterface = (*ReservationService)(nil)
	_ VoucherServiceInterface     = (*VoucherService)(nil)
	_ PWDServiceInterface         = (*PWDService)(nil)
	_ ReviewServiceInterface      = (*ReviewService)(nil)
	_ AccountServiceInterface     = (*AccountService)(nil)
	_ SettingsServiceInterface    = (*SettingsService)(nil)
	_ StatusReader                = (*SettingsService)(nil)
	_ UploadServiceInterface      = (*UploadService)(nil)
	_ DiscountEvaluator           = (*DiscountService)(nil)
	_ Notifier                    = (*EventNotifier)(nil)
)
