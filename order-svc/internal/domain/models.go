package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleStaff   Role = "staff"
	RoleWaiter  Role = "waiter"
	RoleKitchen Role = "kitchen"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStaff, RoleWaiter, RoleKitchen, RoleAdmin:
		return true
	}
	return false
}

type Account struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Blocked      bool      `json:"blocked"`
	CreatedAt    time.Time `json:"created_at"`
}

// CurrentUser is the identity the auth layer attaches to a request.
type CurrentUser struct {
	ID   int
	Role Role
}

func (u CurrentUser) Is(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

type Category string

const (
	CategorySeafood   Category = "seafood"
	CategoryAppetizer Category = "appetizer"
	CategoryMeat      Category = "meat"
	CategoryVegetable Category = "vegetable"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySeafood, CategoryAppetizer, CategoryMeat, CategoryVegetable, CategoryDessert, CategoryBeverage:
		return true
	}
	return false
}

const (
	ProductAvailable   = "available"
	ProductUnavailable = "unavailable"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Status      string          `json:"status"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Table struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Pax            int             `json:"pax"`
	Price          decimal.Decimal `json:"price"`
	ReservationFee decimal.Decimal `json:"reservation_fee"`
	ImageURL       string          `json:"image_url"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CartLine is a cart item joined with the live product row. Available is
// false when the product was deleted or marked unavailable.
type CartLine struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type Cart struct {
	UserID int             `json:"user_id"`
	Lines  []CartLine      `json:"items"`
	Gross  decimal.Decimal `json:"gross"`
}

type PWDStatus string

const (
	PWDPending  PWDStatus = "Pending"
	PWDApproved PWDStatus = "Approved"
	PWDRejected PWDStatus = "Rejected"
)

type PWDRequest struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	DocumentPath string    `json:"document_path"`
	Status       PWDStatus `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Review struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	OrderID   int       `json:"order_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewDetail is the admin view of a review with its author and order.
type ReviewDetail struct {
	Review
	UserName   string          `json:"user_name"`
	UserEmail  string          `json:"user_email"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

// Settings is the single row of shop-wide configuration. IsOpen gates
// customer checkout.
type Settings struct {
	SiteName      string    `json:"site_name"`
	Logo          string    `json:"logo"`
	OrderQR       string    `json:"order_qr"`
	ReservationQR string    `json:"reservation_qr"`
	IsOpen        bool      `json:"is_open"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SettingsImage string

const (
	SettingsLogo          SettingsImage = "logo"
	SettingsOrderQR       SettingsImage = "order-qr"
	SettingsReservationQR SettingsImage = "reservation-qr"
)

func (k SettingsImage) Valid() bool {
	switch k {
	case SettingsLogo, SettingsOrderQR, SettingsReservationQR:
		return true
	}
	return false
}

type BlockedDate struct {
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
