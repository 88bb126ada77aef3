package cart

import "time"

// Item is one cart row: a product in a given size.
type Item struct {
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Data is the nested productId -> size -> quantity view the
// storefront renders.
type Data map[uint]map[string]int
