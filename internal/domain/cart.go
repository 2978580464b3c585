package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ProductID int64            `json:"product_id"`
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	Platform  string           `json:"platform,omitempty"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	Quantity  int              `json:"quantity"`
}

// EffectivePrice is the sale price when one is set, the regular price otherwise.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.SalePrice != nil {
		return *i.SalePrice
	}
	return i.UnitPrice
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
