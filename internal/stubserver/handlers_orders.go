package stubserver

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/order"
)

type createOrderPayload struct {
	CustomerID    *int64              `json:"customerId"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	VoucherID     *int64              `json:"voucherId"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	PaymentStatus order.PaymentStatus `json:"paymentStatus"`
	Note          string              `json:"note"`
	StaffID       int64               `json:"staffId"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, validationf("Dữ liệu không hợp lệ"))
		return
	}
	if req.StaffID <= 0 {
		s.writeError(w, validationf("Thiếu thông tin nhân viên"))
		return
	}

	o := s.store.CreateOrder(req.StaffID, req.PaymentMethod, req.Note)
	s.writeData(w, o)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	all := s.store.ListOrders()
	lo, hi, page := pageWindow(r, len(all))
	s.writePage(w, all[lo:hi], page)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	o, err := s.store.GetOrder(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, o)
}

// updateOrder applies a partial update. Field presence matters: an explicit
// null clears a reference while an absent key leaves it untouched, so the
// body is decoded key by key.
func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		s.writeError(w, validationf("Dữ liệu không hợp lệ"))
		return
	}

	var upd OrderUpdate
	decode := func(raw json.RawMessage, out any) bool {
		if err := json.Unmarshal(raw, out); err != nil {
			s.writeError(w, validationf("Dữ liệu không hợp lệ"))
			return false
		}
		return true
	}

	if raw, ok := fields["customerId"]; ok {
		upd.SetCustomer = true
		if !decode(raw, &upd.CustomerID) {
			return
		}
	}
	if raw, ok := fields["voucherId"]; ok {
		upd.SetVoucher = true
		if !decode(raw, &upd.VoucherID) {
			return
		}
	}
	if raw, ok := fields["note"]; ok {
		upd.SetNote = true
		if !decode(raw, &upd.Note) {
			return
		}
	}
	if raw, ok := fields["orderDetails"]; ok {
		upd.SetLines = true
		if !decode(raw, &upd.Lines) {
			return
		}
	}
	if raw, ok := fields["paymentMethod"]; ok {
		if !decode(raw, &upd.PaymentMethod) {
			return
		}
	}
	if raw, ok := fields["paymentStatus"]; ok {
		if !decode(raw, &upd.PaymentStatus) {
			return
		}
	}

	o, err := s.store.UpdateOrder(id, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, o)
}

type completeOrderPayload struct {
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	AmountPaid    decimal.Decimal     `json:"amountPaid"`
	ChangeAmount  decimal.Decimal     `json:"changeAmount"`
	VoucherID     *int64              `json:"voucherId"`
	PaymentNote   string              `json:"paymentNote"`
	OrderNote     string              `json:"orderNote"`
}

func (s *Server) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req completeOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, validationf("Dữ liệu không hợp lệ"))
		return
	}

	o, err := s.store.CompleteOrder(id, req.PaymentMethod, req.AmountPaid, req.VoucherID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, o)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	reason := r.URL.Query().Get("cancelReason")
	o, err := s.store.CancelOrder(id, reason)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, o)
}

func (s *Server) createQR(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	payload, err := s.store.GenerateQR(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, payload)
}

func (s *Server) settlePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathIDFromQuery(r, "orderId")
	if err != nil {
		s.writeError(w, err)
		return
	}

	o, err := s.store.SettlePayment(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, o)
}
