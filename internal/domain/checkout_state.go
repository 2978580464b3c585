package domain

type CheckoutState string

const (
	CheckoutStateIdle            CheckoutState = "IDLE"
	CheckoutStateValidating      CheckoutState = "VALIDATING"
	CheckoutStateSubmitting      CheckoutState = "SUBMITTING"
	CheckoutStateCompleted       CheckoutState = "COMPLETED"
	CheckoutStateAwaitingPayment CheckoutState = "AWAITING_PAYMENT"
	CheckoutStateFailed          CheckoutState = "FAILED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateCompleted || s == CheckoutStateAwaitingPayment || s == CheckoutStateFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:       {CheckoutStateValidating},
	CheckoutStateValidating: {CheckoutStateSubmitting, CheckoutStateFailed},
	CheckoutStateSubmitting: {CheckoutStateCompleted, CheckoutStateAwaitingPayment, CheckoutStateFailed},
	// Terminal states restart through a fresh validation; a failed or
	// finished attempt may be retried without rebuilding the orchestrator.
	CheckoutStateCompleted:       {CheckoutStateValidating},
	CheckoutStateAwaitingPayment: {CheckoutStateValidating},
	CheckoutStateFailed:          {CheckoutStateValidating},
}

func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
