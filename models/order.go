package models

import "time"

// Order status values. Delivered and cancelled are terminal.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// OrderItem snapshots a charged line at placement time.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productid"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

type CustomerInfo struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
}

type Address struct {
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
	Country string `json:"country" bson:"country"`
}

// Order is created once by the order workflow. Contact info, addresses and
// prices are copies, not references, so later profile or catalog edits do
// not retroactively alter a placed order.
type Order struct {
	OrderID         string       `json:"orderId" bson:"orderid"`
	OrderNumber     string       `json:"orderNumber" bson:"orderNumber"`
	UserID          string       `json:"userId" bson:"userid"`
	Items           []OrderItem  `json:"items" bson:"items"`
	CustomerInfo    CustomerInfo `json:"customerInfo" bson:"customerInfo"`
	ShippingAddress Address      `json:"shippingAddress" bson:"shippingAddress"`
	BillingAddress  Address      `json:"billingAddress" bson:"billingAddress"`
	PaymentMethod   string       `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   string       `json:"paymentStatus" bson:"paymentStatus"`
	PaymentID       string       `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	OrderStatus     string       `json:"orderStatus" bson:"orderStatus"`
	ItemsPrice      float64      `json:"itemsPrice" bson:"itemsPrice"`
	ShippingPrice   float64      `json:"shippingPrice" bson:"shippingPrice"`
	TaxPrice        float64      `json:"taxPrice" bson:"taxPrice"`
	TotalPrice      float64      `json:"totalPrice" bson:"totalPrice"`
	PaidAt          *time.Time   `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	DeliveredAt     *time.Time   `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	OrderNotes      string       `json:"orderNotes,omitempty" bson:"orderNotes,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updatedAt"`
}
