package checkout

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInFlight    = errors.New("a checkout submission is already in flight")
	ErrNoPendingOrder      = errors.New("no pending order recorded")
	IllegalTransitionError = errors.New("illegal transition of checkout state")
)

// ValidationErrors maps field names to messages. Returned before any
// network call is made; a non-empty map blocks submission entirely.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := "checkout validation failed:"
	for _, k := range keys {
		msg += fmt.Sprintf(" %s: %s;", k, v[k])
	}
	return msg
}
