package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"vendora/apperr"
	"vendora/cart"
	"vendora/db"
	"vendora/identity"
	"vendora/metrics"
	"vendora/models"
	"vendora/products"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type placeOrderRequest struct {
	// Items switches the request to buy-now mode; when empty the caller's
	// cart is charged instead.
	Items []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	CustomerInfo    models.CustomerInfo `json:"customerInfo"`
	ShippingAddress models.Address      `json:"shippingAddress"`
	BillingAddress  *models.Address     `json:"billingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	OrderNotes      string              `json:"orderNotes"`
}

// PlaceOrder is the checkout workflow. Stock is taken per line with the
// conditional decrement BEFORE the order document exists; any failure after
// the first decrement compensates by returning what was already taken.
// There is therefore no window in which an order exists without its stock.
func PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Please login to place an order")
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := validatePlaceOrder(req); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	cartMode := len(req.Items) == 0

	items, err := resolveOrderItems(ctx, req, userID)
	if err != nil {
		metrics.RecordOrderOperation("place", false)
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	// Take stock line by line. On the first failure return everything
	// already taken, so a losing checkout leaves the catalog untouched.
	applied := []models.OrderItem{}
	for _, item := range items {
		if err := products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			rerr := restitute(ctx, applied)
			metrics.RecordOrderOperation("place", false)
			switch {
			case rerr != nil:
				utils.RespondWithError(w, apperr.HTTPStatus(rerr),
					"Order failed and a stock inconsistency was recorded")
			case errors.Is(err, apperr.ErrInsufficientStock):
				utils.RespondWithError(w, http.StatusBadRequest,
					fmt.Sprintf("Not enough stock for %q", item.Name))
			default:
				utils.RespondWithInternalError(w, "Failed to place order", err)
			}
			return
		}
		applied = append(applied, item)
	}

	var itemsPrice float64
	for _, item := range items {
		itemsPrice += item.Price * float64(item.Quantity)
	}
	pricing := ComputePricing(itemsPrice)

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	now := time.Now()
	order := models.Order{
		OrderID:         utils.GenerateID("o", 14),
		OrderNumber:     utils.NewOrderNumber(),
		UserID:          userID,
		Items:           items,
		CustomerInfo:    req.CustomerInfo,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		ItemsPrice:      pricing.ItemsPrice,
		ShippingPrice:   pricing.ShippingPrice,
		TaxPrice:        pricing.TaxPrice,
		TotalPrice:      pricing.TotalPrice,
		OrderNotes:      req.OrderNotes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		rerr := restitute(ctx, applied)
		metrics.RecordOrderOperation("place", false)
		if rerr != nil {
			utils.RespondWithError(w, apperr.HTTPStatus(rerr),
				"Order failed and a stock inconsistency was recorded")
			return
		}
		utils.RespondWithInternalError(w, "Failed to place order", err)
		return
	}

	if cartMode {
		if err := cart.Clear(ctx, identity.User(userID)); err != nil {
			// The order stands; an unclear cart is cosmetic.
			log.Printf("Failed to clear cart after order %s: %v", order.OrderID, err)
		}
	}

	Updates.Broadcast(Event{
		Type:        "order_placed",
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber,
		Status:      order.OrderStatus,
		TotalPrice:  order.TotalPrice,
	})
	metrics.RecordOrderOperation("place", true)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

func validatePlaceOrder(req placeOrderRequest) string {
	if req.CustomerInfo.FirstName == "" || req.CustomerInfo.Email == "" {
		return "Customer name and email are required"
	}
	if req.ShippingAddress.Address == "" || req.ShippingAddress.City == "" {
		return "A shipping address is required"
	}
	switch req.PaymentMethod {
	case "card", "paypal", "cod":
	default:
		return "Payment method must be card, paypal or cod"
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return "Each item needs a product id and a positive quantity"
		}
	}
	return ""
}

// resolveOrderItems turns the request into priced lines. Buy-now requests
// are priced from the current catalog, never from client input; cart mode
// charges the cart's own price snapshots, the total the customer saw.
func resolveOrderItems(ctx context.Context, req placeOrderRequest, userID string) ([]models.OrderItem, error) {
	if len(req.Items) > 0 {
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			var product models.Product
			err := db.ProductCollection.FindOne(ctx,
				bson.M{"productid": line.ProductID, "isPublished": true}).Decode(&product)
			if err != nil {
				return nil, fmt.Errorf("product %s: %w", line.ProductID, apperr.ErrNotFound)
			}
			items = append(items, models.OrderItem{
				ProductID: product.ProductID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				Price: cart.UnitPrice(models.CartItem{
					ProductPrice: product.ProductPrice,
					SalePrice:    product.SalePrice,
				}),
				Image: product.MainImage,
			})
		}
		return items, nil
	}

	c, err := cart.Load(ctx, identity.User(userID))
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     cart.UnitPrice(line),
			Image:     line.Image,
		})
	}
	return items, nil
}

// incrementStock is swapped out in tests.
var incrementStock = products.IncrementStock

// restitute returns taken stock after a failed placement or a cancellation.
// Each line gets a few attempts; a line that still fails is a stock
// inconsistency, logged for manual reconciliation and returned to the
// caller so the response can surface it.
func restitute(ctx context.Context, items []models.OrderItem) error {
	var short []string
	for _, item := range items {
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			if err = incrementStock(ctx, item.ProductID, item.Quantity); err == nil {
				break
			}
			time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
		}
		if err != nil {
			log.Printf("%v: failed to return %d units of %s: %v",
				apperr.ErrInconsistency, item.Quantity, item.ProductID, err)
			short = append(short, item.ProductID)
		}
	}
	if len(short) > 0 {
		return fmt.Errorf("stock not returned for %s: %w",
			strings.Join(short, ", "), apperr.ErrInconsistency)
	}
	return nil
}

// CancelOrder cancels the caller's own order. The status guard rides in
// the update filter, so two racing cancellations (or a cancellation racing
// a delivery) resolve to exactly one winner and stock is returned once.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("id")

	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(), bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID && utils.GetRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot cancel this order")
		return
	}
	if !CanCancel(order.OrderStatus) {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("A %s order cannot be cancelled", order.OrderStatus))
		return
	}

	var cancelled models.Order
	err = db.OrderCollection.FindOneAndUpdate(r.Context(),
		bson.M{
			"orderid":     orderID,
			"orderStatus": bson.M{"$nin": bson.A{models.OrderDelivered, models.OrderCancelled}},
		},
		bson.M{"$set": bson.M{
			"orderStatus": models.OrderCancelled,
			"updatedAt":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&cancelled)
	if err != nil {
		// Lost the race; the order reached a terminal state in between.
		metrics.RecordOrderOperation("cancel", false)
		utils.RespondWithError(w, http.StatusBadRequest, "This order can no longer be cancelled")
		return
	}

	if rerr := restitute(r.Context(), cancelled.Items); rerr != nil {
		metrics.RecordOrderOperation("cancel", false)
		utils.RespondWithError(w, apperr.HTTPStatus(rerr),
			"Order cancelled but a stock inconsistency was recorded")
		return
	}

	Updates.Broadcast(Event{
		Type:        "order_cancelled",
		OrderID:     cancelled.OrderID,
		OrderNumber: cancelled.OrderNumber,
		Status:      cancelled.OrderStatus,
		TotalPrice:  cancelled.TotalPrice,
	})
	metrics.RecordOrderOperation("cancel", true)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Order cancelled successfully",
		"order":   cancelled,
	})
}

// GetOrderByID serves an order to its owner or an admin.
func GetOrderByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fetchOrder(w, r, bson.M{"orderid": ps.ByName("id")})
}

// GetOrderByNumber looks an order up by its human-readable number.
func GetOrderByNumber(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fetchOrder(w, r, bson.M{"orderNumber": ps.ByName("orderNumber")})
}

func fetchOrder(w http.ResponseWriter, r *http.Request, filter bson.M) {
	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(), filter).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.UserID != utils.GetUserIDFromRequest(r) && utils.GetRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "You cannot view this order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"order":   order,
	})
}

// GetUserOrders lists the caller's own orders, newest first.
func GetUserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{"userid": userID}
	if opts.Status != "" {
		filter["orderStatus"] = opts.Status
	}

	total, err := db.OrderCollection.CountDocuments(r.Context(), filter)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch orders", err)
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.OrderCollection.Find(r.Context(), filter, findOpts)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch orders", err)
		return
	}
	defer cursor.Close(r.Context())

	orders := []models.Order{}
	if err := cursor.All(r.Context(), &orders); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch orders", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"orders":     orders,
		"pagination": utils.NewPagination(total, opts.Page, opts.Limit),
	})
}
