package order

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	MethodCOD     PaymentMethod = "Cash on Delivery"
	MethodPhonePe PaymentMethod = "PhonePe (Test)"
)

type Order struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uint          `json:"user_id"`
	Items         []OrderItem   `json:"items"`
	Amount        float64       `json:"amount"`
	Address       Address       `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Payment       bool          `json:"payment"`
	Status        Status        `json:"status"`
	TransactionID *string       `json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"date"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OrderItem snapshots name and price at purchase time so later catalog
// edits do not rewrite order history.
type OrderItem struct {
	OrderID   uuid.UUID `json:"-"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
}

// Address is stored as a jsonb column on the order.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}
