package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/domain"
)

// Client wraps the read-only catalog endpoints: products, categories,
// platforms.
type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// ListParams filters and orders a product listing. Zero values are omitted
// from the query.
type ListParams struct {
	Search   string
	Category string
	Platform string
	Ordering string
	Page     int
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Platform != "" {
		q.Set("platform", p.Platform)
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ProductPage is a paginated product listing.
type ProductPage struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []domain.Product `json:"results"`
}

func (c *Client) Products(ctx context.Context, params ListParams) (*ProductPage, error) {
	var page ProductPage
	if err := c.api.Get(ctx, "/products/"+params.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Featured(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	if err := c.api.Get(ctx, "/products/featured/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) OnSale(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	if err := c.api.Get(ctx, "/products/on_sale/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.Get(ctx, fmt.Sprintf("/products/%s/", url.PathEscape(slug)), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) RelatedProducts(ctx context.Context, slug string) ([]domain.Product, error) {
	var list []domain.Product
	if err := c.api.Get(ctx, fmt.Sprintf("/products/%s/related/", url.PathEscape(slug)), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var list []domain.Category
	if err := c.api.Get(ctx, "/categories/", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Platforms(ctx context.Context) ([]domain.Platform, error) {
	var list []domain.Platform
	if err := c.api.Get(ctx, "/platforms/", &list); err != nil {
		return nil, err
	}
	return list, nil
}
