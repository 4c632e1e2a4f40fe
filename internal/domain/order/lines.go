package order

import "github.com/shopspring/decimal"

// The update API replaces the whole line array on every cart mutation rather
// than patching a single line. The functions below are the only place that
// recompute happens: they take the last-known snapshot and return the full
// replacement array, leaving the input untouched.

// MergeLine returns a copy of lines with qty units of the given product
// detail merged in: an existing line for detailID has its quantity
// incremented, otherwise a new line is appended at price.
func MergeLine(lines []Line, detailID int64, qty int, price decimal.Decimal) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)

	for i := range out {
		if out[i].ProductDetailID == detailID {
			out[i].Quantity += qty
			return out
		}
	}

	return append(out, Line{
		ProductDetailID: detailID,
		Quantity:        qty,
		UnitPrice:       price,
		Discount:        decimal.Zero,
	})
}

// SetLineQuantity returns a copy of lines with the quantity of detailID
// rewritten to qty. A qty of zero or less removes the line entirely: a line
// with non-positive quantity is never stored.
func SetLineQuantity(lines []Line, detailID int64, qty int) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ProductDetailID == detailID {
			if qty <= 0 {
				continue
			}
			l.Quantity = qty
		}
		out = append(out, l)
	}
	return out
}

// Subtotal returns the sum of unit price times quantity across all lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}
