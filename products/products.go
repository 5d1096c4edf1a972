package products

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vendora/db"
	"vendora/filemgr"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxUploadSize = 32 << 20

// AddProduct creates a catalog entry from a multipart form so images can
// ride along with the fields.
func AddProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	product, msg := productFromForm(r)
	if msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	product.ProductID = utils.GenerateID("p", 12)
	product.Slug = utils.NewSlug(product.Name)
	product.CreatedAt = now
	product.UpdatedAt = now

	if file, header, err := r.FormFile("mainImage"); err == nil {
		path, serr := filemgr.SaveProductImage(file, header)
		if serr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, serr.Error())
			return
		}
		product.MainImage = path
	}
	if r.MultipartForm != nil {
		headers := r.MultipartForm.File["featureImages"]
		if len(headers) > 5 {
			utils.RespondWithError(w, http.StatusBadRequest, "A product can have at most 5 feature images")
			return
		}
		for _, header := range headers {
			file, ferr := header.Open()
			if ferr != nil {
				continue
			}
			path, serr := filemgr.SaveProductImage(file, header)
			if serr != nil {
				log.Printf("Skipping feature image %s: %v", header.Filename, serr)
				continue
			}
			product.FeatureImages = append(product.FeatureImages, path)
		}
	}

	if _, err := db.ProductCollection.InsertOne(r.Context(), product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "A product with this slug already exists")
			return
		}
		utils.RespondWithInternalError(w, "Failed to create product", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

func productFromForm(r *http.Request) (models.Product, string) {
	var p models.Product

	p.Name = strings.TrimSpace(r.FormValue("name"))
	if p.Name == "" {
		return p, "Product name is required"
	}
	p.Description = r.FormValue("description")
	p.Category = r.FormValue("category")

	var err error
	p.ProductPrice, err = strconv.ParseFloat(r.FormValue("productPrice"), 64)
	if err != nil || p.ProductPrice < 0 {
		return p, "A valid product price is required"
	}
	if v := r.FormValue("salePrice"); v != "" {
		p.SalePrice, err = strconv.ParseFloat(v, 64)
		if err != nil || p.SalePrice < 0 || p.SalePrice > p.ProductPrice {
			return p, "Sale price must be between 0 and the product price"
		}
	}
	p.Quantity, err = strconv.Atoi(r.FormValue("quantity"))
	if err != nil || p.Quantity < 0 {
		return p, "A valid stock quantity is required"
	}
	p.IsPublished = r.FormValue("isPublished") == "true"

	return p, ""
}

// GetAllProducts is the admin listing: unpublished included, paginated,
// searchable by name.
func GetAllProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": opts.Search, "$options": "i"}
	}
	if opts.Status == "published" {
		filter["isPublished"] = true
	} else if opts.Status == "draft" {
		filter["isPublished"] = false
	}

	listProducts(w, r, filter, opts)
}

// GetPublicProducts lists only published products, optionally narrowed to a
// category slug.
func GetPublicProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{"isPublished": true}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": opts.Search, "$options": "i"}
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	listProducts(w, r, filter, opts)
}

func listProducts(w http.ResponseWriter, r *http.Request, filter bson.M, opts utils.QueryOptions) {
	total, err := db.ProductCollection.CountDocuments(r.Context(), filter)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch products", err)
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.ProductCollection.Find(r.Context(), filter, findOpts)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch products", err)
		return
	}
	defer cursor.Close(r.Context())

	products := []models.Product{}
	if err := cursor.All(r.Context(), &products); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch products", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"products":   products,
		"pagination": utils.NewPagination(total, opts.Page, opts.Limit),
	})
}

// GetProductBySlug serves the public product page. Unpublished products are
// indistinguishable from missing ones.
func GetProductBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(),
		bson.M{"slug": ps.ByName("slug"), "isPublished": true}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"product": product,
	})
}

// GetProductByID is the admin detail view, unpublished included.
func GetProductByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(),
		bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"product": product,
	})
}

// UpdateProduct patches the submitted form fields. The slug is regenerated
// only when the name changes.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	set := bson.M{"updatedAt": time.Now()}

	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		set["name"] = name
		set["slug"] = utils.NewSlug(name)
	}
	if v := r.FormValue("description"); v != "" {
		set["description"] = v
	}
	if v := r.FormValue("category"); v != "" {
		set["category"] = v
	}
	if v := r.FormValue("productPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid product price")
			return
		}
		set["productPrice"] = price
	}
	if v := r.FormValue("salePrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid sale price")
			return
		}
		set["salePrice"] = price
	}
	if v := r.FormValue("quantity"); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil || qty < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid stock quantity")
			return
		}
		set["quantity"] = qty
	}
	if v := r.FormValue("isPublished"); v != "" {
		set["isPublished"] = v == "true"
	}

	if file, header, err := r.FormFile("mainImage"); err == nil {
		path, serr := filemgr.SaveProductImage(file, header)
		if serr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, serr.Error())
			return
		}
		set["mainImage"] = path
	}

	var product models.Product
	err := db.ProductCollection.FindOneAndUpdate(r.Context(),
		bson.M{"productid": ps.ByName("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

// TogglePublish flips a product's published state.
func TogglePublish(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(),
		bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	_, err = db.ProductCollection.UpdateOne(r.Context(),
		bson.M{"productid": product.ProductID},
		bson.M{"$set": bson.M{"isPublished": !product.IsPublished, "updatedAt": time.Now()}})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to update product", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Product updated successfully",
		"isPublished": !product.IsPublished,
	})
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.ProductCollection.DeleteOne(r.Context(), bson.M{"productid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to delete product", err)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Product deleted successfully",
	})
}
