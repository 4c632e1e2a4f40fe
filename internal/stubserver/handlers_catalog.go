package stubserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/product"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kw := strings.ToLower(q.Get("keyword"))
	status := q.Get("status")

	all := s.store.Products()
	filtered := make([]product.Product, 0, len(all))
	for _, p := range all {
		if kw != "" && !strings.Contains(strings.ToLower(p.Name), kw) {
			continue
		}
		if status != "" && strconv.FormatBool(p.Active) != status {
			continue
		}
		filtered = append(filtered, p)
	}

	lo, hi, page := pageWindow(r, len(filtered))
	s.writePage(w, filtered[lo:hi], page)
}

func (s *Server) listProductDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	color := q.Get("color")
	capacity := q.Get("capacity")
	minPrice := priceBound(q.Get("minPrice"))
	maxPrice := priceBound(q.Get("maxPrice"))

	all := s.store.ProductDetails(id)
	filtered := make([]product.Detail, 0, len(all))
	for _, d := range all {
		if status != "" && strconv.FormatBool(d.Active) != status {
			continue
		}
		if color != "" && !strings.EqualFold(d.Color, color) {
			continue
		}
		if capacity != "" && !strings.EqualFold(d.Capacity, capacity) {
			continue
		}
		if minPrice != nil && d.Price.LessThan(*minPrice) {
			continue
		}
		if maxPrice != nil && d.Price.GreaterThan(*maxPrice) {
			continue
		}
		filtered = append(filtered, d)
	}

	lo, hi, page := pageWindow(r, len(filtered))
	s.writePage(w, filtered[lo:hi], page)
}

// priceBound parses an optional price bound; absent or malformed means none.
func priceBound(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	all := s.store.Customers()
	lo, hi, page := pageWindow(r, len(all))
	s.writePage(w, all[lo:hi], page)
}

func (s *Server) listVouchers(w http.ResponseWriter, r *http.Request) {
	all := s.store.Vouchers()
	lo, hi, page := pageWindow(r, len(all))
	s.writePage(w, all[lo:hi], page)
}

// pathIDFromQuery parses a numeric id from a query parameter.
func pathIDFromQuery(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(ErrNotFound, "bad %s", key)
	}
	return id, nil
}
