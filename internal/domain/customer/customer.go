package customer

// Customer is an optional association on a pending order, selected by staff
// and fetched read-only. Walk-in sales leave the order without one.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
