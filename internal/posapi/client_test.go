package posapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/domain/order"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Token: "test-token"}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestGetPendingOrder_DecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pos/orders/pending/42", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 200,
			"message": "OK",
			"data": {
				"id": 42,
				"code": "POS000042",
				"status": "PENDING",
				"orderDetails": [{"productDetailId": 101, "quantity": 2, "unitPrice": 50000, "discount": 0}],
				"subtotal": 100000,
				"totalDiscount": 10000,
				"totalAmount": 90000,
				"customerId": 7,
				"note": "Nguyễn Văn A"
			}
		}`))
	})

	o, err := c.GetPendingOrder(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), o.ID)
	assert.Equal(t, "POS000042", o.Code)
	assert.Equal(t, order.StatusPending, o.Status)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(90_000).Equal(o.Total))
	require.NotNil(t, o.CustomerID)
	assert.Equal(t, int64(7), *o.CustomerID)
}

func TestListPendingOrders_ReturnsPagination(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pos/orders/pending", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("size"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": 200,
			"data": [{"id": 1, "code": "POS000001", "status": "PENDING"}],
			"pagination": {"page": 1, "size": 5, "totalElements": 11, "totalPages": 3}
		}`))
	})

	list, page, err := c.ListPendingOrders(context.Background(), ListOrdersParams{Size: 5})

	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, page)
	assert.Equal(t, 11, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
}

func TestListProductDetails_SendsFilters(t *testing.T) {
	active := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pos/products/1/details", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("status"))
		assert.Equal(t, "Đen", q.Get("color"))
		assert.Equal(t, "128GB", q.Get("capacity"))
		assert.Equal(t, "1000000", q.Get("minPrice"))
		assert.Equal(t, "20000000", q.Get("maxPrice"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 200, "data": []}`))
	})

	_, _, err := c.ListProductDetails(context.Background(), 1, ListParams{
		Active:   &active,
		Color:    "Đen",
		Capacity: "128GB",
		MinPrice: decimal.NewFromInt(1_000_000),
		MaxPrice: decimal.NewFromInt(20_000_000),
	})
	require.NoError(t, err)
}

func TestValidationError_CarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"status": 422, "message": "Đơn hàng đã kết thúc, không thể thay đổi"}`))
	})

	_, err := c.UpdatePendingOrder(context.Background(), 1, UpdateOrderRequest{SetNote: true, Note: "x"})

	require.Error(t, err)
	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, 422, apiErr.Status)
	assert.Equal(t, "Đơn hàng đã kết thúc, không thể thay đổi", ValidationMessage(err))
}

func TestNotFoundError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetPendingOrder(context.Background(), 999)

	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Empty(t, ValidationMessage(err))
}

func TestUnknownError_NonEnvelopeBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.GetPendingOrder(context.Background(), 1)

	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindUnknown, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestNetworkError(t *testing.T) {
	// Nothing listens here.
	c, err := New(Config{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.GetPendingOrder(context.Background(), 1)

	apiErr := AsError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
}

func TestCancelOrder_SendsReasonInQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/pos/orders/pending/5", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("staffId"))
		assert.Equal(t, "Khách đổi ý", r.URL.Query().Get("cancelReason"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 200, "data": {"id": 5, "status": "CANCELLED"}}`))
	})

	o, err := c.CancelOrder(context.Background(), 5, 7, "Khách đổi ý")

	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
}

func TestCreateVnpayQR_StringPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pos/orders/pending/5/vnpay-qr", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 200, "data": "vnpay://pay?order=POS000005"}`))
	})

	payload, err := c.CreateVnpayQR(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "vnpay://pay?order=POS000005", payload)
}

func TestUpdateOrderRequest_MarshalsOnlySetFields(t *testing.T) {
	customerID := int64(7)

	cases := []struct {
		name string
		req  UpdateOrderRequest
		want string
	}{
		{
			name: "assign customer",
			req:  UpdateOrderRequest{SetCustomer: true, CustomerID: &customerID},
			want: `{"customerId":7}`,
		},
		{
			name: "clear customer sends explicit null",
			req:  UpdateOrderRequest{SetCustomer: true},
			want: `{"customerId":null}`,
		},
		{
			name: "clear voucher sends explicit null",
			req:  UpdateOrderRequest{SetVoucher: true},
			want: `{"voucherId":null}`,
		},
		{
			name: "unset fields stay absent",
			req:  UpdateOrderRequest{SetNote: true, Note: "Khách lẻ"},
			want: `{"note":"Khách lẻ"}`,
		},
		{
			name: "nil lines serialize as empty array",
			req:  UpdateOrderRequest{SetLines: true},
			want: `{"orderDetails":[]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.req)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))
		})
	}
}

func TestUpdateOrderRequest_LinesPayload(t *testing.T) {
	req := UpdateOrderRequest{
		SetLines: true,
		Lines: []order.Line{
			{ProductDetailID: 101, Quantity: 2, UnitPrice: decimal.NewFromInt(50_000), Discount: decimal.Zero},
		},
	}

	raw, err := json.Marshal(req)

	require.NoError(t, err)
	assert.JSONEq(t, `{"orderDetails":[{"productDetailId":101,"quantity":2,"unitPrice":"50000","discount":"0"}]}`, string(raw))
}
