package session

// Notifier receives the user-facing outcome of every operation: the terminal
// equivalent of a toast. Staff must always get a clear signal; no operation
// lets an error escape past the session boundary instead.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Operator-facing messages, in the shop's language.
const (
	MsgSelectOrderFirst     = "Vui lòng chọn hoặc tạo đơn hàng trước"
	MsgCreateOrderFailed    = "Không thể tạo đơn hàng mới"
	MsgAddProductFailed     = "Không thể thêm sản phẩm vào đơn hàng"
	MsgUpdateQuantityFailed = "Không thể cập nhật số lượng sản phẩm"
	MsgChangeCustomerFailed = "Không thể cập nhật khách hàng"
	MsgChangeVoucherFailed  = "Không thể áp dụng phiếu giảm giá"
	MsgEmptyCart            = "Đơn hàng chưa có sản phẩm"
	MsgInsufficientCash     = "Số tiền khách đưa không đủ"
	MsgCompleteFailed       = "Không thể hoàn tất đơn hàng"
	MsgCompleteSuccess      = "Thanh toán thành công"
	MsgCancelFailed         = "Không thể hủy đơn hàng"
	MsgQRFailed             = "Không thể tạo mã QR thanh toán"

	// GuestNote marks an order without an assigned customer.
	GuestNote = "Khách lẻ"
	// DefaultCancelReason is used when staff cancel without giving a reason.
	DefaultCancelReason = "Hủy tại quầy"
)

// NopNotifier discards all notifications. Useful in tests and background use.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
