package models

import "time"

// CartItem is a single line in a cart. Prices are snapshots captured when
// the item was added; the order workflow re-validates stock against the
// catalog before charging.
type CartItem struct {
	ProductID    string  `json:"productId" bson:"productid"`
	Name         string  `json:"name" bson:"name"`
	Image        string  `json:"image,omitempty" bson:"image,omitempty"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	Price        float64 `json:"price" bson:"price"`
	SalePrice    float64 `json:"salePrice" bson:"salePrice"`
	ProductPrice float64 `json:"productPrice" bson:"productPrice"`
}

// Cart belongs to exactly one of an authenticated user or an anonymous
// session; the identity package enforces that at the API layer. TotalAmount
// and TotalItems are derived from Items and recomputed before every persist.
type Cart struct {
	UserID      string     `json:"userId,omitempty" bson:"userid,omitempty"`
	SessionID   string     `json:"sessionId,omitempty" bson:"sessionid,omitempty"`
	Items       []CartItem `json:"items" bson:"items"`
	TotalAmount float64    `json:"totalAmount" bson:"totalAmount"`
	TotalItems  int        `json:"totalItems" bson:"totalItems"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type Wishlist struct {
	UserID    string    `json:"userId,omitempty" bson:"userid,omitempty"`
	SessionID string    `json:"sessionId,omitempty" bson:"sessionid,omitempty"`
	Items     []string  `json:"items" bson:"items"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
