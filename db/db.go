package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection     *mongo.Collection
	ProductCollection  *mongo.Collection
	CategoryCollection *mongo.Collection
	CartCollection     *mongo.Collection
	WishlistCollection *mongo.Collection
	OrderCollection    *mongo.Collection
	Client             *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "storedb"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database(dbName).Collection("users")
	ProductCollection = Client.Database(dbName).Collection("products")
	CategoryCollection = Client.Database(dbName).Collection("categories")
	CartCollection = Client.Database(dbName).Collection("carts")
	WishlistCollection = Client.Database(dbName).Collection("wishlists")
	OrderCollection = Client.Database(dbName).Collection("orders")

	ensureIndexes()
}

// ensureIndexes creates the unique indexes the workflows rely on:
// user email, product slug, category slug/name, order number.
func ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	idx := []struct {
		coll *mongo.Collection
		keys bson.D
	}{
		{UserCollection, bson.D{{Key: "email", Value: 1}}},
		{ProductCollection, bson.D{{Key: "slug", Value: 1}}},
		{ProductCollection, bson.D{{Key: "productid", Value: 1}}},
		{CategoryCollection, bson.D{{Key: "slug", Value: 1}}},
		{OrderCollection, bson.D{{Key: "orderNumber", Value: 1}}},
		{OrderCollection, bson.D{{Key: "orderid", Value: 1}}},
	}

	for _, i := range idx {
		_, err := i.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    i.keys,
			Options: unique,
		})
		if err != nil {
			log.Printf("Index creation on %s failed: %v", i.coll.Name(), err)
		}
	}
}
