package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/cart"
	"github.com/ammi749/gamekeys/internal/domain"
	"github.com/ammi749/gamekeys/internal/orders"
	"github.com/ammi749/gamekeys/internal/session"
	"github.com/ammi749/gamekeys/internal/storage"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Input is what the checkout form collects.
type Input struct {
	Email         string
	PaymentMethod domain.PaymentMethod
	UseCashback   bool
}

// Orchestrator drives a checkout attempt: validate the input, submit the
// order, and route the response to the right payment continuation. It reads
// the cart and session but mutates them only through their own operations.
type Orchestrator struct {
	api     *api.Client
	cart    *cart.Store
	session *session.Manager
	orders  *orders.Client
	state   storage.Store

	mu      sync.Mutex
	attempt domain.CheckoutState
}

func NewOrchestrator(apiClient *api.Client, cartStore *cart.Store, sessionMgr *session.Manager, ordersClient *orders.Client, st storage.Store) *Orchestrator {
	return &Orchestrator{
		api:     apiClient,
		cart:    cartStore,
		session: sessionMgr,
		orders:  ordersClient,
		state:   st,
		attempt: domain.CheckoutStateIdle,
	}
}

// Validate checks the input locally. Field-keyed failures come back without
// any network call.
func (o *Orchestrator) Validate(input Input) ValidationErrors {
	errs := ValidationErrors{}

	if input.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(input.Email) {
		errs["email"] = "Email is invalid"
	}

	switch input.PaymentMethod {
	case "":
		errs["payment_method"] = "Payment method is required"
	case domain.PaymentMethodStripe, domain.PaymentMethodPayPal:
	default:
		errs["payment_method"] = "Unsupported payment method"
	}

	if o.cart.IsEmpty() {
		errs["cart"] = "Your cart is empty"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CashbackApplicable is the credit the server will actually apply:
// min(available balance, cart subtotal). Zero for anonymous sessions.
func (o *Orchestrator) CashbackApplicable() decimal.Decimal {
	profile := o.session.Profile()
	if profile == nil || !o.session.IsAuthenticated() {
		return decimal.Zero
	}
	subtotal := o.cart.Subtotal()
	if profile.CashbackBalance.LessThan(subtotal) {
		return profile.CashbackBalance
	}
	return subtotal
}

// EstimatedTotal is the figure shown before submission, reconciled against
// the cashback bound the server enforces.
func (o *Orchestrator) EstimatedTotal(useCashback bool) decimal.Decimal {
	subtotal := o.cart.Subtotal()
	if !useCashback {
		return subtotal
	}
	return subtotal.Sub(o.CashbackApplicable())
}

func (o *Orchestrator) State() domain.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempt
}

// Submit runs one checkout attempt to completion. On `Paid` it clears the
// cart; on a pending outcome it records the pending-order marker and leaves
// the cart untouched. A failed attempt leaves cart and session as they were
// and may be retried with corrected input.
func (o *Orchestrator) Submit(ctx context.Context, input Input) (domain.PaymentOutcome, error) {
	if err := o.transition(domain.CheckoutStateValidating); err != nil {
		return nil, err
	}

	if errs := o.Validate(input); errs != nil {
		o.mustTransition(domain.CheckoutStateFailed)
		return nil, errs
	}
	o.mustTransition(domain.CheckoutStateSubmitting)

	req := domain.CheckoutRequest{
		Email:         input.Email,
		Items:         o.cart.OrderItems(),
		PaymentMethod: input.PaymentMethod,
		// Cashback needs an account to draw from.
		UseCashback: input.UseCashback && o.session.IsAuthenticated(),
	}
	expectedCashback := o.CashbackApplicable()

	var resp struct {
		Order   domain.Order             `json:"order"`
		Payment domain.PaymentDescriptor `json:"payment"`
	}
	err := o.api.Post(ctx, "/orders/", req, &resp,
		api.WithHeader("Idempotency-Key", uuid.NewString()))
	if err != nil {
		o.mustTransition(domain.CheckoutStateFailed)
		return nil, err
	}

	if req.UseCashback && resp.Order.CashbackUsed.GreaterThan(expectedCashback) {
		log.Printf("server applied %s cashback, expected at most %s \n",
			resp.Order.CashbackUsed, expectedCashback)
	}

	return o.routePayment(resp.Order, resp.Payment)
}

// routePayment turns the order-creation response into a PaymentOutcome.
func (o *Orchestrator) routePayment(order domain.Order, payment domain.PaymentDescriptor) (domain.PaymentOutcome, error) {
	switch payment.Status {
	case domain.PaymentStatusPaid:
		// Cashback covered the whole total; nothing left to pay.
		o.cart.Clear()
		o.clearPendingMarker()
		o.mustTransition(domain.CheckoutStateCompleted)
		return domain.Paid{OrderID: order.ID}, nil

	case domain.PaymentStatusError:
		o.mustTransition(domain.CheckoutStateFailed)
		return nil, fmt.Errorf("payment setup failed: %s", payment.Message)
	}

	method := payment.PaymentMethod
	if method == "" {
		method = order.PaymentMethod
	}

	switch method {
	case domain.PaymentMethodStripe:
		o.recordPendingMarker(order.ID)
		o.mustTransition(domain.CheckoutStateAwaitingPayment)
		return domain.PendingStripe{
			OrderID:      order.ID,
			ClientSecret: payment.ClientSecret,
			Amount:       payment.Amount,
		}, nil

	case domain.PaymentMethodPayPal:
		o.recordPendingMarker(order.ID)
		o.mustTransition(domain.CheckoutStateAwaitingPayment)
		return domain.PendingPayPal{
			OrderID: order.ID,
			Amount:  payment.Amount,
		}, nil

	default:
		o.mustTransition(domain.CheckoutStateFailed)
		return nil, fmt.Errorf("unsupported payment method %q in response", method)
	}
}

// ConfirmPayment relays the provider's result for a pending order. Once the
// server marks the order paid, the cart and the pending marker are cleared.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, orderID int64, input orders.ConfirmPaymentInput) error {
	if err := o.orders.ConfirmPayment(ctx, orderID, input); err != nil {
		return err
	}
	o.cart.Clear()
	o.clearPendingMarker()
	return nil
}

// PendingOrder resumes an interrupted payment flow: it reads the durable
// marker left by a pending outcome and fetches the order behind it.
func (o *Orchestrator) PendingOrder(ctx context.Context) (*domain.Order, error) {
	id, err := o.state.PendingOrder(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoPendingOrder
	}
	if err != nil {
		return nil, err
	}
	return o.orders.Get(ctx, id)
}

func (o *Orchestrator) transition(to domain.CheckoutState) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attempt == domain.CheckoutStateValidating || o.attempt == domain.CheckoutStateSubmitting {
		return ErrCheckoutInFlight
	}
	if !domain.CanTransitionTo(o.attempt, to) {
		return IllegalTransitionError
	}
	o.attempt = to
	return nil
}

// mustTransition is for transitions the state table always permits from
// where the orchestrator can be at the call site.
func (o *Orchestrator) mustTransition(to domain.CheckoutState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !domain.CanTransitionTo(o.attempt, to) {
		log.Printf("illegal checkout transition %s -> %s \n", o.attempt, to)
	}
	o.attempt = to
}

// Marker writes are best effort: a storage failure must not lose a payment
// continuation that is already under way.
func (o *Orchestrator) recordPendingMarker(orderID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := o.state.SetPendingOrder(ctx, orderID); err != nil {
		log.Printf("record pending order error: %v \n", err)
	}
}

func (o *Orchestrator) clearPendingMarker() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := o.state.ClearPendingOrder(ctx); err != nil {
		log.Printf("clear pending order error: %v \n", err)
	}
}
