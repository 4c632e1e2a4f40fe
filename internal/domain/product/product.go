package product

import "github.com/shopspring/decimal"

// Product is a catalog entry grouping one or more purchasable variants.
type Product struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Brand  string `json:"brand"`
	Active bool   `json:"active"`
}

// Detail is a specific purchasable SKU variant (color/capacity combination)
// of a product. Price is the server's promotion-adjusted selling price;
// AvailableStock is stock minus units reserved by open orders. Both are
// authoritative server-side only.
type Detail struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"productId"`
	Name           string          `json:"name"`
	Color          string          `json:"color"`
	Capacity       string          `json:"capacity"`
	Price          decimal.Decimal `json:"price"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	AvailableStock int             `json:"availableStock"`
	Active         bool            `json:"active"`
}
