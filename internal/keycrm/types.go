package keycrm

// OrderBuyer is the buyer block of a new order.
type OrderBuyer struct {
	FullName string `json:"full_name"`
}

// OrderProduct is one line item.
type OrderProduct struct {
	SKU      string `json:"sku"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// CreateOrderRequest is the POST /order body.
type CreateOrderRequest struct {
	SourceID       *int           `json:"source_id,omitempty"`
	SourceUUID     string         `json:"source_uuid"`
	ManagerComment string         `json:"manager_comment"`
	Buyer          OrderBuyer     `json:"buyer"`
	Products       []OrderProduct `json:"products"`
}

// UpdateOrderRequest is the PATCH /order/{id} body.
type UpdateOrderRequest struct {
	ManagerComment string `json:"manager_comment"`
}

// OrderStatus is included when the request asks for include=status.
type OrderStatus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Order is the subset of a KeyCRM order we read.
type Order struct {
	ID             int64        `json:"id"`
	SourceUUID     string       `json:"source_uuid"`
	ManagerComment string       `json:"manager_comment"`
	TotalPrice     float64      `json:"total_price"`
	CreatedAt      string       `json:"created_at"`
	Status         *OrderStatus `json:"status,omitempty"`
}

// StatusName returns the included status name, or "" when absent.
func (o *Order) StatusName() string {
	if o == nil || o.Status == nil {
		return ""
	}
	return o.Status.Name
}

// User is a KeyCRM staff member.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

// DisplayName is FullName, falling back to Username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Page is a paginated KeyCRM listing.
type Page[T any] struct {
	Data        []T  `json:"data"`
	Total       int  `json:"total"`
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	LastPage    *int `json:"last_page"`
}

// Pages is the number of pages reported by the listing; a missing or
// non-positive last_page means the listing is a single page.
func (p *Page[T]) Pages() int {
	if p == nil || p.LastPage == nil || *p.LastPage < 1 {
		return 1
	}
	return *p.LastPage
}
