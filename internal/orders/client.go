package orders

import (
	"context"
	"fmt"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/domain"
)

// Client wraps the order endpoints.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.api.Get(ctx, fmt.Sprintf("/orders/%d/", orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetGuest fetches an order placed without an account; the email used at
// checkout proves ownership.
func (c *Client) GetGuest(ctx context.Context, orderID int64, email string) (*domain.Order, error) {
	var order domain.Order
	body := map[string]string{"email": email}
	if err := c.api.Post(ctx, fmt.Sprintf("/orders/%d/guest/", orderID), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	if err := c.api.Get(ctx, "/orders/my_orders/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ConfirmPaymentInput carries what the payment provider handed back.
type ConfirmPaymentInput struct {
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	PaymentIntentID string               `json:"payment_intent_id,omitempty"`
}

func (c *Client) ConfirmPayment(ctx context.Context, orderID int64, input ConfirmPaymentInput) error {
	return c.api.Post(ctx, fmt.Sprintf("/orders/%d/confirm_payment/", orderID), input, nil)
}

func (c *Client) CashbackTransactions(ctx context.Context) ([]domain.CashbackTransaction, error) {
	var list []domain.CashbackTransaction
	if err := c.api.Get(ctx, "/cashback-transactions/", &list); err != nil {
		return nil, err
	}
	return list, nil
}
