package domain

import "github.com/shopspring/decimal"

// PaymentOutcome is the closed set of results a checkout submission can
// produce. The unexported method keeps the set sealed so dispatch over it
// stays exhaustive.
type PaymentOutcome interface {
	paymentOutcome()
}

// Paid means the order was fully settled during creation (cashback covered
// the total). No further payment step is required.
type Paid struct {
	OrderID int64
}

// PendingStripe hands the flow to the Stripe payment UI.
type PendingStripe struct {
	OrderID      int64
	ClientSecret string
	Amount       decimal.Decimal
}

// PendingPayPal hands the flow to the PayPal payment UI.
type PendingPayPal struct {
	OrderID int64
	Amount  decimal.Decimal
}

func (Paid) paymentOutcome()          {}
func (PendingStripe) paymentOutcome() {}
func (PendingPayPal) paymentOutcome() {}
