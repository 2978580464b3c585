package domain

import "github.com/shopspring/decimal"

// TokenPair is the persisted authentication state. Both tokens are set
// (authenticated) or both are empty (anonymous), never one without the other.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (t TokenPair) IsZero() bool {
	return t.Access == "" && t.Refresh == ""
}

type Profile struct {
	ID              int64           `json:"id"`
	Email           string          `json:"email"`
	Username        string          `json:"username,omitempty"`
	FirstName       string          `json:"first_name,omitempty"`
	LastName        string          `json:"last_name,omitempty"`
	CashbackBalance decimal.Decimal `json:"cashback_balance"`
}
