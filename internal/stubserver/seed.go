package stubserver

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
)

// seedCatalog loads the demo catalog used by the development server.
func seedCatalog(s *Store, now time.Time) {
	s.AddProduct(
		product.Product{ID: 1, Name: "Galaxy S24", Brand: "Samsung", Active: true},
		product.Detail{ID: 101, ProductID: 1, Name: "Galaxy S24 128GB Đen", Color: "Đen", Capacity: "128GB",
			Price: vnd(18_990_000), OriginalPrice: vnd(20_990_000), AvailableStock: 12, Active: true},
		product.Detail{ID: 102, ProductID: 1, Name: "Galaxy S24 256GB Xám", Color: "Xám", Capacity: "256GB",
			Price: vnd(21_490_000), OriginalPrice: vnd(22_990_000), AvailableStock: 7, Active: true},
	)
	s.AddProduct(
		product.Product{ID: 2, Name: "iPhone 15", Brand: "Apple", Active: true},
		product.Detail{ID: 201, ProductID: 2, Name: "iPhone 15 128GB Hồng", Color: "Hồng", Capacity: "128GB",
			Price: vnd(21_990_000), OriginalPrice: vnd(21_990_000), AvailableStock: 9, Active: true},
		product.Detail{ID: 202, ProductID: 2, Name: "iPhone 15 256GB Xanh", Color: "Xanh", Capacity: "256GB",
			Price: vnd(25_490_000), OriginalPrice: vnd(25_490_000), AvailableStock: 4, Active: true},
	)
	s.AddProduct(
		product.Product{ID: 3, Name: "Tai nghe Buds Pro", Brand: "Samsung", Active: true},
		product.Detail{ID: 301, ProductID: 3, Name: "Buds Pro Trắng", Color: "Trắng", Capacity: "",
			Price: vnd(3_490_000), OriginalPrice: vnd(3_990_000), AvailableStock: 30, Active: true},
	)

	s.AddCustomer(customer.Customer{ID: 1, Name: "Nguyễn Văn An", Phone: "0901234567", Email: "an.nguyen@example.com"})
	s.AddCustomer(customer.Customer{ID: 2, Name: "Trần Thị Bình", Phone: "0912345678", Email: "binh.tran@example.com"})

	s.AddVoucher(voucher.Voucher{
		ID: 1, Code: "GIAM10", Type: voucher.DiscountPercentage,
		Value: decimal.NewFromInt(10), MaxDiscount: vnd(2_000_000),
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		Quantity: 100, Active: true,
	})
	s.AddVoucher(voucher.Voucher{
		ID: 2, Code: "GIAM500K", Type: voucher.DiscountFixed,
		Value: vnd(500_000), MinOrderValue: vnd(5_000_000),
		StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0),
		Quantity: 50, Active: true,
	})
}

func vnd(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}
