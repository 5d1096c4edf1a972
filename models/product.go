package models

import "time"

// Product is a catalog entry. Quantity is the live stock count; it is
// mutated only through the conditional increment/decrement primitives in
// the products package.
type Product struct {
	ProductID     string    `json:"productId" bson:"productid"`
	Name          string    `json:"name" bson:"name"`
	Slug          string    `json:"slug" bson:"slug"`
	Description   string    `json:"description" bson:"description"`
	Category      string    `json:"category" bson:"category"`
	ProductPrice  float64   `json:"productPrice" bson:"productPrice"`
	SalePrice     float64   `json:"salePrice" bson:"salePrice"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	MainImage     string    `json:"mainImage" bson:"mainImage"`
	FeatureImages []string  `json:"featureImages,omitempty" bson:"featureImages,omitempty"`
	IsPublished   bool      `json:"isPublished" bson:"isPublished"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" bson:"categoryid"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string    `json:"icon,omitempty" bson:"icon,omitempty"`
	IsPublished bool      `json:"isPublished" bson:"isPublished"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
