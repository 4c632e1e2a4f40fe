// Package stubserver is an in-memory implementation of the /pos REST API:
// the development and test double for the real backend. It honors the same
// envelope shapes, lifecycle rules, and validation messages the terminal
// expects in production.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/posapi"
	"github.com/techzone/pos-terminal/pkg/httpmiddleware"
)

// Server exposes a Store over the /pos HTTP surface.
type Server struct {
	store *Store
	lg    *zap.Logger
}

// NewServer creates a Server over the given store.
func NewServer(store *Store, lg *zap.Logger) *Server {
	return &Server{store: store, lg: lg}
}

// Handler returns the full /pos route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /pos/products", s.listProducts)
	mux.HandleFunc("GET /pos/products/{id}/details", s.listProductDetails)
	mux.HandleFunc("GET /pos/customers", s.listCustomers)
	mux.HandleFunc("GET /pos/vouchers", s.listVouchers)

	mux.HandleFunc("POST /pos/orders/pending", s.createOrder)
	mux.HandleFunc("GET /pos/orders/pending", s.listOrders)
	mux.HandleFunc("GET /pos/orders/pending/{id}", s.getOrder)
	mux.HandleFunc("PUT /pos/orders/pending/{id}", s.updateOrder)
	mux.HandleFunc("DELETE /pos/orders/pending/{id}", s.cancelOrder)
	mux.HandleFunc("POST /pos/orders/pending/{id}/complete", s.completeOrder)
	mux.HandleFunc("POST /pos/orders/pending/{id}/vnpay-qr", s.createQR)
	mux.HandleFunc("POST /pos/payment/vnpay/simulate", s.settlePayment)

	return httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.InjectLogger(s.lg),
		httpmiddleware.RequestID(),
		httpmiddleware.LogRequests(),
	)
}

// envelope mirrors the wire wrapper of the real backend.
type envelope struct {
	Status     int                `json:"status"`
	Message    string             `json:"message"`
	Data       any                `json:"data"`
	Pagination *posapi.Pagination `json:"pagination,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, env envelope) {
	env.Status = status
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.lg.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeData(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, envelope{Message: "OK", Data: data})
}

func (s *Server) writePage(w http.ResponseWriter, data any, page *posapi.Pagination) {
	s.writeJSON(w, http.StatusOK, envelope{Message: "OK", Data: data, Pagination: page})
}

// writeError maps store errors onto the API's status taxonomy.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		s.writeJSON(w, http.StatusUnprocessableEntity, envelope{Message: vErr.Msg})
	case errors.Is(err, ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, envelope{Message: err.Error()})
	default:
		s.lg.Error("request failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, envelope{Message: "internal error"})
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrap(ErrNotFound, "bad id")
	}
	return id, nil
}

// pageWindow applies page/size query parameters to a slice length and returns
// the window bounds plus the pagination block.
func pageWindow(r *http.Request, total int) (lo, hi int, page *posapi.Pagination) {
	p, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if p < 1 {
		p = 1
	}
	if size < 1 {
		size = 10
	}

	lo = (p - 1) * size
	if lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}

	pages := (total + size - 1) / size
	return lo, hi, &posapi.Pagination{Page: p, Size: size, TotalElements: total, TotalPages: pages}
}

// Seed populates the store with a small demo catalog.
func Seed(store *Store, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	seedCatalog(store, now())
}
