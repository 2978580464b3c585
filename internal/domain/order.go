package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusPaymentProcessing OrderStatus = "PAYMENT_PROCESSING"
	OrderStatusPaid              OrderStatus = "PAID"
	OrderStatusFulfilled         OrderStatus = "FULFILLED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentMethodStripe   PaymentMethod = "STRIPE"
	PaymentMethodPayPal   PaymentMethod = "PAYPAL"
	PaymentMethodCashback PaymentMethod = "CASHBACK"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodPayPal, PaymentMethodCashback:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusError   PaymentStatus = "ERROR"
)

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Order struct {
	ID             int64           `json:"id"`
	Email          string          `json:"email"`
	Status         OrderStatus     `json:"status"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CashbackUsed   decimal.Decimal `json:"cashback_used"`
	Total          decimal.Decimal `json:"total"`
	CashbackEarned decimal.Decimal `json:"cashback_earned"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	FulfilledAt    *time.Time      `json:"fulfilled_at,omitempty"`
	Items          []OrderLine     `json:"items,omitempty"`
	Keys           []DigitalKey    `json:"keys,omitempty"`
}

// OrderLine is an item as the server reports it back, with the price
// actually charged.
type OrderLine struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product"`
	ProductName string          `json:"product_name"`
	Platform    string          `json:"platform,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ItemTotal   decimal.Decimal `json:"item_total"`
}

// DigitalKey is delivered once an order is fulfilled.
type DigitalKey struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	KeyCode     string    `json:"key_code"`
	Platform    string    `json:"platform"`
	SoldAt      time.Time `json:"sold_at"`
}

// PaymentDescriptor is the payment half of the order-creation response.
type PaymentDescriptor struct {
	Status        PaymentStatus   `json:"status,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	ClientSecret  string          `json:"client_secret,omitempty"`
	Amount        decimal.Decimal `json:"amount,omitempty"`
	Message       string          `json:"message,omitempty"`
}

type CheckoutRequest struct {
	Email         string        `json:"email"`
	Items         []OrderItem   `json:"items"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	UseCashback   bool          `json:"use_cashback"`
}

type CashbackTransaction struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"transaction_type"`
	OrderID   *int64          `json:"order,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
