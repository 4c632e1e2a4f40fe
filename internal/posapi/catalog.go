package posapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
)

// ListParams is the page window and filter set for list endpoints. Keyword
// and Active apply to the product list; Color, Capacity and the price bounds
// are honored by the variant list only.
type ListParams struct {
	Page    int
	Size    int
	Keyword string
	// Active filters by active/inactive status when set.
	Active *bool
	// Variant filters.
	Color    string
	Capacity string
	MinPrice decimal.Decimal // zero means no lower bound
	MaxPrice decimal.Decimal // zero means no upper bound
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Keyword != "" {
		q.Set("keyword", p.Keyword)
	}
	if p.Active != nil {
		q.Set("status", strconv.FormatBool(*p.Active))
	}
	if p.Color != "" {
		q.Set("color", p.Color)
	}
	if p.Capacity != "" {
		q.Set("capacity", p.Capacity)
	}
	if p.MinPrice.IsPositive() {
		q.Set("minPrice", p.MinPrice.String())
	}
	if p.MaxPrice.IsPositive() {
		q.Set("maxPrice", p.MaxPrice.String())
	}
	return q
}

// ListProducts fetches a page of the sellable catalog.
func (c *Client) ListProducts(ctx context.Context, params ListParams) ([]product.Product, *Pagination, error) {
	var list []product.Product
	page, err := c.do(ctx, http.MethodGet, "/pos/products", params.values(), nil, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, page, nil
}

// ListProductDetails fetches the SKU variants of one product.
func (c *Client) ListProductDetails(ctx context.Context, productID int64, params ListParams) ([]product.Detail, *Pagination, error) {
	var list []product.Detail
	path := fmt.Sprintf("/pos/products/%d/details", productID)
	page, err := c.do(ctx, http.MethodGet, path, params.values(), nil, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, page, nil
}

// ListCustomers fetches a page of customers for order assignment.
func (c *Client) ListCustomers(ctx context.Context, params ListParams) ([]customer.Customer, *Pagination, error) {
	var list []customer.Customer
	page, err := c.do(ctx, http.MethodGet, "/pos/customers", params.values(), nil, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, page, nil
}

// ListVouchers fetches a page of vouchers applicable at the counter.
func (c *Client) ListVouchers(ctx context.Context, params ListParams) ([]voucher.Voucher, *Pagination, error) {
	var list []voucher.Voucher
	page, err := c.do(ctx, http.MethodGet, "/pos/vouchers", params.values(), nil, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, page, nil
}
