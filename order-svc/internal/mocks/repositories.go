package mocks

import (
	"context"
	"testing"
	"time"

	"restobar/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// value returns argument i as T, or the zero value when the test returned
// an untyped nil.
func value[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type ProductRepository struct {
	mock.Mock
}

func NewProductRepository(t *testing.T) *ProductRepository {
	m := &ProductRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	ret := m.Called(ctx, category)
	return value[[]domain.Product](ret, 0), ret.Error(1)
}

func (m *ProductRepository) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	ret := m.Called(ctx, id)
	return value[*domain.Product](ret, 0), ret.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id int) (int64, error) {
	ret := m.Called(ctx, id)
	return value[int64](ret, 0), ret.Error(1)
}

func (m *ProductRepository) UpdateProductImage(ctx context.Context, id int, imageURL string) error {
	return m.Called(ctx, id, imageURL).Error(0)
}

type TableRepository struct {
	mock.Mock
}

func NewTableRepository(t *testing.T) *TableRepository {
	m := &TableRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TableRepository) CreateTable(ctx context.Context, table *domain.Table) error {
	return m.Called(ctx, table).Error(0)
}

func (m *TableRepository) ListTables(ctx context.Context) ([]domain.Table, error) {
	ret := m.Called(ctx)
	return value[[]domain.Table](ret, 0), ret.Error(1)
}

func (m *TableRepository) GetTable(ctx context.Context, id int) (*domain.Table, error) {
	ret := m.Called(ctx, id)
	return value[*domain.Table](ret, 0), ret.Error(1)
}

func (m *TableRepository) UpdateTable(ctx context.Context, table *domain.Table) error {
	return m.Called(ctx, table).Error(0)
}

func (m *TableRepository) DeleteTable(ctx context.Context, id int) (int64, error) {
	ret := m.Called(ctx, id)
	return value[int64](ret, 0), ret.Error(1)
}

func (m *TableRepository) UpdateTableImage(ctx context.Context, id int, imageURL string) error {
	return m.Called(ctx, id, imageURL).Error(0)
}

type CartRepository struct {
	mock.Mock
}

func NewCartRepository(t *testing.T) *CartRepository {
	m := &CartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CartRepository) AddCartItem(ctx context.Context, userID, productID int) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *CartRepository) IncreaseCartItem(ctx context.Context, userID, productID int) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *CartRepository) DecreaseCartItem(ctx context.Context, userID, productID int) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *CartRepository) ClearCart(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *CartRepository) ListCartLines(ctx context.Context, userID int) ([]domain.CartLine, error) {
	ret := m.Called(ctx, userID)
	return value[[]domain.CartLine](ret, 0), ret.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t *testing.T) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	ret := m.Called(ctx, id)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID int) ([]domain.Order, error) {
	ret := m.Called(ctx, userID)
	return value[[]domain.Order](ret, 0), ret.Error(1)
}

func (m *OrderRepository) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	ret := m.Called(ctx, status)
	return value[[]domain.Order](ret, 0), ret.Error(1)
}

func (m *OrderRepository) CountOrdersByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	ret := m.Called(ctx, status)
	return value[int](ret, 0), ret.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, from, to domain.OrderStatus) (bool, error) {
	ret := m.Called(ctx, id, from, to)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *OrderRepository) LastPWDOrderAt(ctx context.Context, userID int) (*time.Time, error) {
	ret := m.Called(ctx, userID)
	return value[*time.Time](ret, 0), ret.Error(1)
}

func (m *OrderRepository) ListCompletedOrders(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	ret := m.Called(ctx, from, to)
	return value[[]domain.Order](ret, 0), ret.Error(1)
}

func (m *OrderRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	return m.Called(ctx, orderID, qr).Error(0)
}

func (m *OrderRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	ret := m.Called(ctx, orderID)
	return value[[]byte](ret, 0), ret.Error(1)
}

type VoucherRepository struct {
	mock.Mock
}

func NewVoucherRepository(t *testing.T) *VoucherRepository {
	m := &VoucherRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *VoucherRepository) CreateVoucher(ctx context.Context, voucher *domain.Voucher, claimForAll bool) error {
	return m.Called(ctx, voucher, claimForAll).Error(0)
}

func (m *VoucherRepository) GetVoucher(ctx context.Context, id int) (*domain.Voucher, error) {
	ret := m.Called(ctx, id)
	return value[*domain.Voucher](ret, 0), ret.Error(1)
}

func (m *VoucherRepository) GetVoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	ret := m.Called(ctx, code)
	return value[*domain.Voucher](ret, 0), ret.Error(1)
}

func (m *VoucherRepository) UpdateVoucher(ctx context.Context, voucher *domain.Voucher) error {
	return m.Called(ctx, voucher).Error(0)
}

func (m *VoucherRepository) DeleteVoucher(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *VoucherRepository) ClaimVoucher(ctx context.Context, voucherID, userID int) (bool, error) {
	ret := m.Called(ctx, voucherID, userID)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *VoucherRepository) VoucherState(ctx context.Context, voucherID, userID int) (bool, bool, error) {
	ret := m.Called(ctx, voucherID, userID)
	return value[bool](ret, 0), value[bool](ret, 1), ret.Error(2)
}

func (m *VoucherRepository) ListVouchersForUser(ctx context.Context, userID int) ([]domain.VoucherState, error) {
	ret := m.Called(ctx, userID)
	return value[[]domain.VoucherState](ret, 0), ret.Error(1)
}

type PWDRepository struct {
	mock.Mock
}

func NewPWDRepository(t *testing.T) *PWDRepository {
	m := &PWDRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PWDRepository) CreatePWDRequest(ctx context.Context, req *domain.PWDRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *PWDRepository) HasPWDRequest(ctx context.Context, userID int, status domain.PWDStatus) (bool, error) {
	ret := m.Called(ctx, userID, status)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *PWDRepository) UpdatePWDStatus(ctx context.Context, id int, from, to domain.PWDStatus) (bool, error) {
	ret := m.Called(ctx, id, from, to)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *PWDRepository) GetPWDRequest(ctx context.Context, id int) (*domain.PWDRequest, error) {
	ret := m.Called(ctx, id)
	return value[*domain.PWDRequest](ret, 0), ret.Error(1)
}

func (m *PWDRepository) ListPWDRequests(ctx context.Context, status domain.PWDStatus) ([]domain.PWDRequest, error) {
	ret := m.Called(ctx, status)
	return value[[]domain.PWDRequest](ret, 0), ret.Error(1)
}

type ReservationRepository struct {
	mock.Mock
}

func NewReservationRepository(t *testing.T) *ReservationRepository {
	m := &ReservationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReservationRepository) CreateReservation(ctx context.Context, reservation *domain.Reservation) error {
	return m.Called(ctx, reservation).Error(0)
}

func (m *ReservationRepository) GetReservation(ctx context.Context, id int) (*domain.Reservation, error) {
	ret := m.Called(ctx, id)
	return value[*domain.Reservation](ret, 0), ret.Error(1)
}

func (m *ReservationRepository) ListReservationsByUser(ctx context.Context, userID int) ([]domain.Reservation, error) {
	ret := m.Called(ctx, userID)
	return value[[]domain.Reservation](ret, 0), ret.Error(1)
}

func (m *ReservationRepository) ListReservations(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	ret := m.Called(ctx, status)
	return value[[]domain.Reservation](ret, 0), ret.Error(1)
}

func (m *ReservationRepository) UpdateReservationStatus(ctx context.Context, id int, from, to domain.ReservationStatus, completedAt *time.Time) (bool, error) {
	ret := m.Called(ctx, id, from, to, completedAt)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *ReservationRepository) IsDateBlocked(ctx context.Context, date string) (bool, error) {
	ret := m.Called(ctx, date)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *ReservationRepository) BlockDate(ctx context.Context, blocked *domain.BlockedDate) error {
	return m.Called(ctx, blocked).Error(0)
}

func (m *ReservationRepository) UnblockDate(ctx context.Context, date string) error {
	return m.Called(ctx, date).Error(0)
}

func (m *ReservationRepository) ListBlockedDates(ctx context.Context) ([]domain.BlockedDate, error) {
	ret := m.Called(ctx)
	return value[[]domain.BlockedDate](ret, 0), ret.Error(1)
}

type AccountRepository struct {
	mock.Mock
}

func NewAccountRepository(t *testing.T) *AccountRepository {
	m := &AccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ret := m.Called(ctx, email)
	return value[*domain.Account](ret, 0), ret.Error(1)
}

func (m *AccountRepository) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	ret := m.Called(ctx, id)
	return value[*domain.Account](ret, 0), ret.Error(1)
}

func (m *AccountRepository) ListAccounts(ctx context.Context, roles []domain.Role) ([]domain.Account, error) {
	ret := m.Called(ctx, roles)
	return value[[]domain.Account](ret, 0), ret.Error(1)
}

func (m *AccountRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *AccountRepository) DeleteAccount(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *AccountRepository) SetAccountBlocked(ctx context.Context, id int, blocked bool) error {
	return m.Called(ctx, id, blocked).Error(0)
}

type ReviewRepository struct {
	mock.Mock
}

func NewReviewRepository(t *testing.T) *ReviewRepository {
	m := &ReviewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReviewRepository) IsOrderReviewable(ctx context.Context, orderID, userID int) (bool, error) {
	ret := m.Called(ctx, orderID, userID)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *ReviewRepository) GetExistingReviewID(ctx context.Context, orderID, userID int) (int, error) {
	ret := m.Called(ctx, orderID, userID)
	return value[int](ret, 0), ret.Error(1)
}

func (m *ReviewRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) ListReviewsByUser(ctx context.Context, userID int) ([]domain.Review, error) {
	ret := m.Called(ctx, userID)
	return value[[]domain.Review](ret, 0), ret.Error(1)
}

func (m *ReviewRepository) ListReviews(ctx context.Context) ([]domain.ReviewDetail, error) {
	ret := m.Called(ctx)
	return value[[]domain.ReviewDetail](ret, 0), ret.Error(1)
}

type SettingsRepository struct {
	mock.Mock
}

func NewSettingsRepository(t *testing.T) *SettingsRepository {
	m := &SettingsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SettingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	ret := m.Called(ctx)
	return value[*domain.Settings](ret, 0), ret.Error(1)
}

func (m *SettingsRepository) ToggleOpen(ctx context.Context) (bool, error) {
	ret := m.Called(ctx)
	return value[bool](ret, 0), ret.Error(1)
}

func (m *SettingsRepository) UpdateSettingsImage(ctx context.Context, kind domain.SettingsImage, url string) error {
	return m.Called(ctx, kind, url).Error(0)
}

func (m *SettingsRepository) UpdateSiteName(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type UploadRepository struct {
	mock.Mock
}

func NewUploadRepository(t *testing.T) *UploadRepository {
	m := &UploadRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UploadRepository) UploadOwner(ctx context.Context, path string) (int, error) {
	ret := m.Called(ctx, path)
	return value[int](ret, 0), ret.Error(1)
}
