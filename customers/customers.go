package customers

import (
	"log"
	"net/http"
	"time"

	"vendora/db"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type customerRow struct {
	models.PublicUser
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLogin   time.Time `json:"lastLogin,omitempty"`
	OrdersCount int64     `json:"ordersCount"`
	TotalSpent  float64   `json:"totalSpent"`
}

// GetAllCustomers is the admin customer listing. Order counts and spend
// come from a single aggregation over the orders collection rather than a
// query per row.
func GetAllCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	ctx := r.Context()

	filter := bson.M{"role": "user"}
	if opts.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"email": bson.M{"$regex": opts.Search, "$options": "i"}},
			bson.M{"firstName": bson.M{"$regex": opts.Search, "$options": "i"}},
			bson.M{"lastName": bson.M{"$regex": opts.Search, "$options": "i"}},
		}
	}
	if opts.Status == "active" {
		filter["isActive"] = true
	} else if opts.Status == "inactive" {
		filter["isActive"] = false
	}

	total, err := db.UserCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch customers", err)
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.UserCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch customers", err)
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch customers", err)
		return
	}

	spend, err := spendByUser(r)
	if err != nil {
		log.Printf("Failed to aggregate customer spend: %v", err)
		spend = map[string]spendRow{}
	}

	customers := make([]customerRow, 0, len(users))
	for _, u := range users {
		row := customerRow{
			PublicUser: u.Public(),
			IsActive:   u.IsActive,
			CreatedAt:  u.CreatedAt,
			LastLogin:  u.LastLogin,
		}
		if s, ok := spend[u.UserID]; ok {
			row.OrdersCount = s.Count
			row.TotalSpent = utils.Round2(s.Total)
		}
		customers = append(customers, row)
	}

	activeCount, err := db.UserCollection.CountDocuments(ctx, bson.M{"role": "user", "isActive": true})
	if err != nil {
		activeCount = 0
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"customers": customers,
		"stats": utils.M{
			"totalCustomers":  total,
			"activeCustomers": activeCount,
		},
		"pagination": utils.NewPagination(total, opts.Page, opts.Limit),
	})
}

type spendRow struct {
	Count int64
	Total float64
}

func spendByUser(r *http.Request) (map[string]spendRow, error) {
	ctx := r.Context()
	cursor, err := db.OrderCollection.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"orderStatus": bson.M{"$ne": models.OrderCancelled}}},
		{"$group": bson.M{
			"_id":        "$userid",
			"count":      bson.M{"$sum": 1},
			"totalSpent": bson.M{"$sum": "$totalPrice"},
		}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := map[string]spendRow{}
	for cursor.Next(ctx) {
		var row struct {
			UserID string  `bson:"_id"`
			Count  int64   `bson:"count"`
			Total  float64 `bson:"totalSpent"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		result[row.UserID] = spendRow{Count: row.Count, Total: row.Total}
	}
	return result, cursor.Err()
}

// GetCustomerByID is the admin detail view with the customer's most recent
// orders attached.
func GetCustomerByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": ps.ByName("id")}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Customer not found")
		return
	}

	cursor, err := db.OrderCollection.Find(ctx,
		bson.M{"userid": user.UserID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(10))
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch customer", err)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch customer", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"customer": utils.M{
			"user":      user.Public(),
			"isActive":  user.IsActive,
			"address":   user.Address,
			"createdAt": user.CreatedAt,
			"lastLogin": user.LastLogin,
		},
		"recentOrders": orders,
	})
}

// ToggleActive flips a customer between active and deactivated. Deactivated
// customers cannot log in; existing tokens die at the login gate.
func ToggleActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var user models.User
	err := db.UserCollection.FindOne(r.Context(),
		bson.M{"userid": ps.ByName("id"), "role": "user"}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Customer not found")
		return
	}

	_, err = db.UserCollection.UpdateOne(r.Context(),
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"isActive": !user.IsActive, "updatedAt": time.Now()}})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to update customer", err)
		return
	}

	message := "Customer deactivated"
	if !user.IsActive {
		message = "Customer reactivated"
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  message,
		"isActive": !user.IsActive,
	})
}
