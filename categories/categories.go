package categories

import (
	"net/http"
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

// AddCategory creates a category. Names are unique case-insensitively so
// "Shoes" and "shoes" cannot coexist.
func AddCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	count, err := db.CategoryCollection.CountDocuments(r.Context(),
		bson.M{"name": bson.M{"$regex": "^" + escapeRegex(name) + "$", "$options": "i"}})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to create category", err)
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "A category with this name already exists")
		return
	}

	now := time.Now()
	category := models.Category{
		CategoryID:  utils.GenerateID("c", 12),
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: r.FormValue("description"),
		IsPublished: r.FormValue("isPublished") == "true",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if file, header, err := r.FormFile("icon"); err == nil {
		path, serr := filemgr.SaveCategoryIcon(file, header)
		if serr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, serr.Error())
			return
		}
		category.Icon = path
	}

	if _, err := db.CategoryCollection.InsertOne(r.Context(), category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "A category with this name already exists")
			return
		}
		utils.RespondWithInternalError(w, "Failed to create category", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":  true,
		"message":  "Category created successfully",
		"category": category,
	})
}

func escapeRegex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`)
	return replacer.Replace(s)
}

// GetAllCategories is the admin listing, drafts included.
func GetAllCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Search != "" {
		filter["name"] = bson.M{"$regex": opts.Search, "$options": "i"}
	}

	total, err := db.CategoryCollection.CountDocuments(r.Context(), filter)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch categories", err)
		return
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.CategoryCollection.Find(r.Context(), filter, findOpts)
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch categories", err)
		return
	}
	defer cursor.Close(r.Context())

	categories := []models.Category{}
	if err := cursor.All(r.Context(), &categories); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch categories", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"categories": categories,
		"pagination": utils.NewPagination(total, opts.Page, opts.Limit),
	})
}

// GetPublicCategories lists published categories for the storefront nav.
func GetPublicCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cursor, err := db.CategoryCollection.Find(r.Context(),
		bson.M{"isPublished": true},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch categories", err)
		return
	}
	defer cursor.Close(r.Context())

	categories := []models.Category{}
	if err := cursor.All(r.Context(), &categories); err != nil {
		utils.RespondWithInternalError(w, "Failed to fetch categories", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"categories": categories,
	})
}

func GetCategoryBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var category models.Category
	err := db.CategoryCollection.FindOne(r.Context(),
		bson.M{"slug": ps.ByName("slug"), "isPublished": true}).Decode(&category)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"category": category,
	})
}

func UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	set := bson.M{"updatedAt": time.Now()}

	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		count, err := db.CategoryCollection.CountDocuments(r.Context(), bson.M{
			"name":       bson.M{"$regex": "^" + escapeRegex(name) + "$", "$options": "i"},
			"categoryid": bson.M{"$ne": ps.ByName("id")},
		})
		if err != nil {
			utils.RespondWithInternalError(w, "Failed to update category", err)
			return
		}
		if count > 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "A category with this name already exists")
			return
		}
		set["name"] = name
		set["slug"] = utils.Slugify(name)
	}
	if v := r.FormValue("description"); v != "" {
		set["description"] = v
	}
	if v := r.FormValue("isPublished"); v != "" {
		set["isPublished"] = v == "true"
	}
	if file, header, err := r.FormFile("icon"); err == nil {
		path, serr := filemgr.SaveCategoryIcon(file, header)
		if serr != nil {
			utils.RespondWithError(w, http.StatusBadRequest, serr.Error())
			return
		}
		set["icon"] = path
	}

	var category models.Category
	err := db.CategoryCollection.FindOneAndUpdate(r.Context(),
		bson.M{"categoryid": ps.ByName("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&category)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  "Category updated successfully",
		"category": category,
	})
}

func TogglePublish(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var category models.Category
	err := db.CategoryCollection.FindOne(r.Context(),
		bson.M{"categoryid": ps.ByName("id")}).Decode(&category)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	_, err = db.CategoryCollection.UpdateOne(r.Context(),
		bson.M{"categoryid": category.CategoryID},
		bson.M{"$set": bson.M{"isPublished": !category.IsPublished, "updatedAt": time.Now()}})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to update category", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Category updated successfully",
		"isPublished": !category.IsPublished,
	})
}

func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.CategoryCollection.DeleteOne(r.Context(), bson.M{"categoryid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithInternalError(w, "Failed to delete category", err)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Category deleted successfully",
	})
}
