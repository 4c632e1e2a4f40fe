package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
	"github.com/techzone/pos-terminal/internal/payment"
	"github.com/techzone/pos-terminal/internal/posapi"
	"github.com/techzone/pos-terminal/internal/session"
)

// consoleNotifier prints operation outcomes to stdout, the terminal's toast.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println("✔ " + msg) }
func (consoleNotifier) Error(msg string)   { fmt.Println("✘ " + msg) }

const replHelp = `Lệnh:
  orders                danh sách đơn chờ        new             tạo đơn mới
  use <id>              chọn đơn                 show            xem đơn hiện tại
  products              danh sách sản phẩm       details <id>    biến thể sản phẩm
  add <skuId> [sl]      thêm sản phẩm            qty <skuId> <n> đổi số lượng
  customer <id|none>    gán khách hàng           voucher <mã|none> áp phiếu giảm giá
  pay cash <tiền>       thanh toán tiền mặt      pay qr          thanh toán VNPAY-QR
  cancel [lý do]        hủy đơn                  refresh         đồng bộ lại
  quit                  thoát`

// runREPL reads commands from stdin until EOF or context cancellation.
func runREPL(ctx context.Context, sess *session.Session, orch *payment.Orchestrator, client *posapi.Client) error {
	fmt.Println(replHelp)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("pos> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Println(replHelp)
		case "orders":
			sess.RefreshAll(ctx, session.RefreshOptions{SkipProducts: true, SkipCustomers: true, SkipVouchers: true})
			for _, o := range sess.PendingOrders() {
				fmt.Printf("  #%d %s  %s  %s₫\n", o.ID, o.Code, o.Status, o.Total.StringFixed(0))
			}
		case "new":
			if id, ok := sess.CreateOrder(ctx); ok {
				fmt.Printf("  Đơn mới #%d\n", id)
			}
		case "use":
			id := parseID(args)
			if id == 0 {
				fmt.Println("  use <id>")
				continue
			}
			sess.SelectOrder(ctx, id)
			printOrder(sess.Selected())
		case "show":
			printOrder(sess.Selected())
		case "products":
			for _, p := range sess.Products() {
				fmt.Printf("  #%d %s (%s)\n", p.ID, p.Name, p.Brand)
			}
		case "details":
			id := parseID(args)
			if id == 0 {
				fmt.Println("  details <productId>")
				continue
			}
			details, _, err := client.ListProductDetails(ctx, id, posapi.ListParams{Size: 20})
			if err != nil {
				fmt.Println("  ✘ " + err.Error())
				continue
			}
			for _, d := range details {
				fmt.Printf("  #%d %s  %s₫  tồn: %d\n", d.ID, d.Name, d.Price.StringFixed(0), d.AvailableStock)
			}
		case "add":
			id := parseID(args)
			if id == 0 {
				fmt.Println("  add <skuId> [số lượng]")
				continue
			}
			qty := 1
			if len(args) > 1 {
				qty, _ = strconv.Atoi(args[1])
			}
			d, err := findDetail(ctx, client, sess, id)
			if err != nil {
				fmt.Println("  ✘ " + err.Error())
				continue
			}
			if sess.AddProduct(ctx, *d, qty) {
				printOrder(sess.Selected())
			}
		case "qty":
			if len(args) < 2 {
				fmt.Println("  qty <skuId> <số lượng>")
				continue
			}
			id := parseID(args)
			n, _ := strconv.Atoi(args[1])
			if sess.UpdateLineQuantity(ctx, id, n) {
				printOrder(sess.Selected())
			}
		case "customer":
			if len(args) == 0 {
				fmt.Println("  customer <id|none>")
				continue
			}
			if args[0] == "none" {
				orch.SetCustomer(ctx, nil)
				continue
			}
			id := parseID(args)
			for _, c := range sess.Customers() {
				if c.ID == id {
					cc := c
					orch.SetCustomer(ctx, &cc)
					break
				}
			}
		case "voucher":
			if len(args) == 0 {
				fmt.Println("  voucher <mã|none>")
				continue
			}
			if args[0] == "none" {
				orch.SetVoucher(ctx, nil)
				continue
			}
			v := findVoucher(sess, args[0])
			if v == nil {
				fmt.Println("  ✘ Không tìm thấy phiếu giảm giá " + args[0])
				continue
			}
			orch.SetVoucher(ctx, v)
		case "pay":
			handlePay(ctx, sess, orch, args)
		case "cancel":
			sel := sess.Selected()
			if sel == nil {
				fmt.Println("  ✘ " + session.MsgSelectOrderFirst)
				continue
			}
			sess.Cancel(ctx, sel.ID, strings.Join(args, " "))
		case "refresh":
			sess.RefreshAll(ctx, session.RefreshOptions{})
		default:
			fmt.Println("  Lệnh không hợp lệ, gõ help")
		}
	}
}

func handlePay(ctx context.Context, sess *session.Session, orch *payment.Orchestrator, args []string) {
	if len(args) == 0 {
		fmt.Println("  pay cash <tiền> | pay qr")
		return
	}
	switch args[0] {
	case "cash":
		if len(args) < 2 {
			fmt.Println("  pay cash <tiền>")
			return
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			fmt.Println("  ✘ Số tiền không hợp lệ")
			return
		}
		orch.SetMethod(order.MethodCash)
		orch.SetReceived(amount)
		if change := orch.Change(); change.IsPositive() {
			fmt.Printf("  Tiền thừa: %s₫\n", change.StringFixed(0))
		}
		orch.CompleteCash(ctx)
	case "qr":
		if !orch.SetMethod(order.MethodVnpayQR) {
			fmt.Println("  ✘ Đơn hàng chưa đủ điều kiện thanh toán QR")
			return
		}
		if orch.GenerateQR(ctx) {
			img, _ := orch.QRState()
			fmt.Printf("  Quét mã để thanh toán (%d bytes), đang chờ xác nhận...\n", len(img))
		} else if _, failed := orch.QRState(); failed {
			fmt.Println("  ✘ " + session.MsgQRFailed + " — gõ 'pay qr' để thử lại")
		}
	default:
		fmt.Println("  pay cash <tiền> | pay qr")
	}
}

func printOrder(o *order.PendingOrder) {
	if o == nil {
		fmt.Println("  Chưa chọn đơn hàng")
		return
	}
	fmt.Printf("  Đơn #%d %s  %s\n", o.ID, o.Code, o.Status)
	for _, l := range o.Lines {
		fmt.Printf("    SKU %d  x%d  %s₫\n", l.ProductDetailID, l.Quantity, l.UnitPrice.StringFixed(0))
	}
	fmt.Printf("    Tạm tính %s₫  Giảm %s₫  Thành tiền %s₫\n",
		o.Subtotal.StringFixed(0), o.Discount.StringFixed(0), o.Total.StringFixed(0))
}

func parseID(args []string) int64 {
	if len(args) == 0 {
		return 0
	}
	id, _ := strconv.ParseInt(args[0], 10, 64)
	return id
}

func findVoucher(sess *session.Session, code string) *voucher.Voucher {
	for _, v := range sess.Vouchers() {
		if strings.EqualFold(v.Code, code) {
			vv := v
			return &vv
		}
	}
	return nil
}

// findDetail resolves a variant id by scanning the cached products' variants.
func findDetail(ctx context.Context, client *posapi.Client, sess *session.Session, detailID int64) (*product.Detail, error) {
	for _, p := range sess.Products() {
		details, _, err := client.ListProductDetails(ctx, p.ID, posapi.ListParams{Size: 50})
		if err != nil {
			continue
		}
		for _, d := range details {
			if d.ID == detailID {
				dd := d
				return &dd, nil
			}
		}
	}
	return nil, fmt.Errorf("không tìm thấy biến thể %d", detailID)
}
