package tests

import (
	"context"
	"testing"

	"restobar/order-svc/internal/domain"
	"restobar/order-svc/internal/mocks"
	"restobar/order-svc/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     *domain.Product
		mockError error
		callRepo  bool
		wantErr   bool
	}{
		{
			name:     "valid product defaults to available",
			input:    &domain.Product{Name: "Kare-kare", Price: dec("250"), Category: domain.CategoryMeat},
			callRepo: true,
		},
		{
			name:      "database error",
			input:     &domain.Product{Name: "Kare-kare", Price: dec("250"), Category: domain.CategoryMeat},
			mockError: assert.AnError,
			callRepo:  true,
			wantErr:   true,
		},
		{
			name:    "empty name",
			input:   &domain.Product{Name: " ", Price: dec("250"), Category: domain.CategoryMeat},
			wantErr: true,
		},
		{
			name:    "zero price",
			input:   &domain.Product{Name: "Water", Price: dec("0"), Category: domain.CategoryBeverage},
			wantErr: true,
		},
		{
			name:    "unknown category",
			input:   &domain.Product{Name: "Pizza", Price: dec("300"), Category: "italian"},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := mocks.NewProductRepository(t)
			svc := service.NewProductService(mockRepo)
			if testCase.callRepo {
				mockRepo.On("CreateProduct", mock.Anything, testCase.input).Return(testCase.mockError).Once()
			}

			err := svc.Create(context.Background(), testCase.input)

			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, domain.ProductAvailable, testCase.input.Status)
		})
	}
}

func TestTableService_Get(t *testing.T) {
	tests := []struct {
		name      string
		id        int
		mockTable *domain.Table
		mockError error
		wantErr   error
	}{
		{name: "table found", id: 1, mockTable: &domain.Table{ID: 1, Name: "Window 1"}},
		{name: "table not found", id: 999, mockError: domain.ErrTableNotFound, wantErr: domain.ErrNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := mocks.NewTableRepository(t)
			svc := service.NewTableService(mockRepo)
			mockRepo.On("GetTable", mock.Anything, testCase.id).Return(testCase.mockTable, testCase.mockError).Once()

			table, err := svc.Get(context.Background(), testCase.id)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.mockTable.Name, table.Name)
		})
	}
}

func TestCartService_Add(t *testing.T) {
	tests := []struct {
		name       string
		product    *domain.Product
		productErr error
		wantInsert bool
	}{
		{name: "available product", product: &domain.Product{ID: 1, Status: domain.ProductAvailable}, wantInsert: true},
		{name: "unavailable product is ignored", product: &domain.Product{ID: 1, Status: domain.ProductUnavailable}},
		{name: "unknown product is ignored", productErr: domain.ErrProductNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			carts := mocks.NewCartRepository(t)
			products := mocks.NewProductRepository(t)
			svc := service.NewCartService(carts, products, zerolog.Nop())

			products.On("GetProduct", mock.Anything, 1).Return(testCase.product, testCase.productErr).Once()
			if testCase.wantInsert {
				carts.On("AddCartItem", mock.Anything, 7, 1).Return(nil).Once()
			}

			assert.NoError(t, svc.Add(context.Background(), 7, 1))
		})
	}
}

func TestCartService_Decrease_MissingLine(t *testing.T) {
	carts := mocks.NewCartRepository(t)
	svc := service.NewCartService(carts, mocks.NewProductRepository(t), zerolog.Nop())
	carts.On("DecreaseCartItem", mock.Anything, 7, 1).Return(domain.ErrCartItemNotFound).Once()

	err := svc.Decrease(context.Background(), 7, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartService_Items_SkipsUnavailableInGross(t *testing.T) {
	carts := mocks.NewCartRepository(t)
	svc := service.NewCartService(carts, mocks.NewProductRepository(t), zerolog.Nop())
	carts.On("ListCartLines", mock.Anything, 7).Return(cartLines(), nil).Once()

	cart, err := svc.Items(context.Background(), 7)

	require.NoError(t, err)
	assert.Len(t, cart.Lines, 3)
	assert.True(t, cart.Gross.Equal(dec("200")), "gross %s", cart.Gross)
}

func TestCartService_Items_EmptyCart(t *testing.T) {
	carts := mocks.NewCartRepository(t)
	svc := service.NewCartService(carts, mocks.NewProductRepository(t), zerolog.Nop())
	carts.On("ListCartLines", mock.Anything, 7).Return(nil, nil).Once()

	cart, err := svc.Items(context.Background(), 7)

	require.NoError(t, err)
	assert.NotNil(t, cart.Lines)
	assert.True(t, cart.Gross.IsZero())
}
