package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Platform    string           `json:"platform,omitempty"`
	Category    string           `json:"category,omitempty"`
	Image       string           `json:"image,omitempty"`
	InStock     bool             `json:"in_stock"`
	OnSale      bool             `json:"on_sale"`
}

// CurrentPrice mirrors the server-side price selection: sale price wins
// while a sale is active.
func (p Product) CurrentPrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Platform struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
