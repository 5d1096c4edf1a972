package orders

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vendora/apperr"
	"vendora/db"
	"vendora/metrics"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllOrders is the admin listing with filters and aggregate stats.
// Cancelled orders are excluded from revenue but counted in the totals.
func GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Status != "" {
		filter["orderStatus"] = opts.Status
	}
	if opts.PaymentMethod != "" {
		filter["paymentMethod"] = opts.PaymentMethod
	}
	if opts.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"orderNumber": bson.M{"$regex": opts.Search, "$options": "i"}},
			bson.M{"customerInfo.email": bson.M{"$regex": opts.Search, "$options": "i"}},
			bson.M{"customerInfo.lastName": bson.M{"$regex": opts.Search, "$options": "i"}},
		}
	}
	if dateFilter := buildDateFilter(opts); dateFilter != nil {
		filter["createdAt"] = dateFilter
	}

	ctx := r.Context()

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch orders", err)
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.OrderCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch orders", err)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch orders", err)
		return
	}

	stats, err := orderStats(r)
	if err != nil {
		log.Printf("Failed to compute order stats: %v", err)
		stats = utils.M{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"orders":     orders,
		"stats":      stats,
		"pagination": utils.NewPagination(total, opts.Page, opts.Limit),
	})
}

func buildDateFilter(opts utils.QueryOptions) bson.M {
	now := time.Now()
	switch opts.DateRange {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return bson.M{"$gte": start}
	case "week":
		return bson.M{"$gte": now.AddDate(0, 0, -7)}
	case "month":
		return bson.M{"$gte": now.AddDate(0, -1, 0)}
	}

	rangeFilter := bson.M{}
	if opts.StartDate != "" {
		if t, err := time.Parse("2006-01-02", opts.StartDate); err == nil {
			rangeFilter["$gte"] = t
		}
	}
	if opts.EndDate != "" {
		if t, err := time.Parse("2006-01-02", opts.EndDate); err == nil {
			rangeFilter["$lt"] = t.AddDate(0, 0, 1)
		}
	}
	if len(rangeFilter) == 0 {
		return nil
	}
	return rangeFilter
}

func orderStats(r *http.Request) (utils.M, error) {
	ctx := r.Context()

	byStatus, err := db.OrderCollection.Aggregate(ctx, []bson.M{
		{"$group": bson.M{"_id": "$orderStatus", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer byStatus.Close(ctx)

	counts := map[string]int64{}
	var totalOrders int64
	for byStatus.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := byStatus.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Count
		totalOrders += row.Count
	}

	revenue, err := db.OrderCollection.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"orderStatus": bson.M{"$ne": models.OrderCancelled}}},
		{"$group": bson.M{"_id": nil, "totalRevenue": bson.M{"$sum": "$totalPrice"}}},
	})
	if err != nil {
		return nil, err
	}
	defer revenue.Close(ctx)

	var totalRevenue float64
	if revenue.Next(ctx) {
		var row struct {
			TotalRevenue float64 `bson:"totalRevenue"`
		}
		if err := revenue.Decode(&row); err != nil {
			return nil, err
		}
		totalRevenue = row.TotalRevenue
	}

	return utils.M{
		"totalOrders":  totalOrders,
		"byStatus":     counts,
		"totalRevenue": utils.Round2(totalRevenue),
	}, nil
}

type updateStatusRequest struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentID     string `json:"paymentId"`
}

// UpdateOrderStatus is the admin transition endpoint. Moving to cancelled
// goes through the same guarded path as a customer cancellation so stock
// restitution is never skipped or doubled.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.OrderStatus != "" && !validStatuses[req.OrderStatus] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(), bson.M{"orderid": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if req.OrderStatus == models.OrderCancelled {
		cancelAsAdmin(w, r, order)
		return
	}

	if order.OrderStatus == models.OrderCancelled || order.OrderStatus == models.OrderDelivered {
		utils.RespondWithError(w, http.StatusBadRequest,
			"A "+order.OrderStatus+" order cannot change status")
		return
	}

	now := time.Now()
	set := bson.M{"updatedAt": now}
	if req.OrderStatus != "" {
		set["orderStatus"] = req.OrderStatus
		if req.OrderStatus == models.OrderDelivered {
			set["deliveredAt"] = now
		}
	}
	if req.PaymentStatus != "" {
		set["paymentStatus"] = req.PaymentStatus
		if req.PaymentStatus == models.PaymentPaid {
			set["paidAt"] = now
		}
	}
	if req.PaymentID != "" {
		set["paymentId"] = req.PaymentID
	}

	var updated models.Order
	err = db.OrderCollection.FindOneAndUpdate(r.Context(),
		bson.M{"orderid": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		metrics.RecordOrderOperation("status_update", false)
		utils.RespondWithInternalError(w, "Failed to update order", err)
		return
	}

	Updates.Broadcast(Event{
		Type:        "order_updated",
		OrderID:     updated.OrderID,
		OrderNumber: updated.OrderNumber,
		Status:      updated.OrderStatus,
		TotalPrice:  updated.TotalPrice,
	})
	metrics.RecordOrderOperation("status_update", true)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Order updated successfully",
		"order":   updated,
	})
}

func cancelAsAdmin(w http.ResponseWriter, r *http.Request, order models.Order) {
	if !CanCancel(order.OrderStatus) {
		utils.RespondWithError(w, http.StatusBadRequest,
			"A "+order.OrderStatus+" order cannot be cancelled")
		return
	}

	var cancelled models.Order
	err := db.OrderCollection.FindOneAndUpdate(r.Context(),
		bson.M{
			"orderid":     order.OrderID,
			"orderStatus": bson.M{"$nin": bson.A{models.OrderDelivered, models.OrderCancelled}},
		},
		bson.M{"$set": bson.M{
			"orderStatus": models.OrderCancelled,
			"updatedAt":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&cancelled)
	if err != nil {
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
