package routes

import (
	"net/http"

	"vendora/auth"
	"vendora/cart"
	"vendora/categories"
	"vendora/customers"
	"vendora/metrics"
	"vendora/middleware"
	"vendora/orders"
	"vendora/products"
	"vendora/ratelim"
	"vendora/wishlist"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/admin/login", ratelim.RateLimit(auth.AdminLogin))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/forgot-password", ratelim.RateLimit(auth.ForgotPassword))
	router.POST("/api/auth/reset-password/:token", ratelim.RateLimit(auth.ResetPassword))

	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
	router.PUT("/api/auth/me", middleware.Authenticate(auth.UpdateProfile))
	router.PUT("/api/auth/password", middleware.Authenticate(auth.ChangePassword))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.GetPublicProducts)
	router.GET("/api/products/:slug", products.GetProductBySlug)
	router.GET("/api/categories", categories.GetPublicCategories)
	router.GET("/api/categories/:slug", categories.GetCategoryBySlug)
}

// Cart and wishlist work for guests too: OptionalAuth resolves either the
// bearer token or an anonymous session id.
func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.OptionalAuth(cart.GetCart))
	router.POST("/api/cart/items", middleware.OptionalAuth(cart.AddToCart))
	router.PUT("/api/cart/items", middleware.OptionalAuth(cart.UpdateCartItem))
	router.DELETE("/api/cart/items/:productId", middleware.OptionalAuth(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.OptionalAuth(cart.ClearCart))
	router.POST("/api/cart/merge", middleware.Authenticate(cart.MergeCart))
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.OptionalAuth(wishlist.GetWishlist))
	router.POST("/api/wishlist/items", middleware.OptionalAuth(wishlist.AddToWishlist))
	router.DELETE("/api/wishlist/items/:productId", middleware.OptionalAuth(wishlist.RemoveFromWishlist))
	router.POST("/api/wishlist/toggle", middleware.OptionalAuth(wishlist.ToggleWishlist))
	router.POST("/api/wishlist/merge", middleware.Authenticate(wishlist.MergeWishlist))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders",
		ratelim.RateLimit(middleware.Authenticate(metrics.Instrument("/api/orders", orders.PlaceOrder))))
	router.GET("/api/orders/user", middleware.Authenticate(orders.GetUserOrders))
	router.GET("/api/orders/order/:id", middleware.Authenticate(orders.GetOrderByID))
	router.GET("/api/orders/number/:orderNumber", middleware.Authenticate(orders.GetOrderByNumber))
	router.PUT("/api/orders/order/:id/cancel",
		middleware.Authenticate(metrics.Instrument("/api/orders/order/:id/cancel", orders.CancelOrder)))
	router.GET("/api/orders/order/:id/invoice", middleware.Authenticate(orders.DownloadInvoice))
}

func AddAdminRoutes(router *httprouter.Router) {
	admin := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.AdminOnly(h))
	}

	router.GET("/api/admin/products", admin(products.GetAllProducts))
	router.POST("/api/admin/products", admin(products.AddProduct))
	router.GET("/api/admin/products/:id", admin(products.GetProductByID))
	router.PUT("/api/admin/products/:id", admin(products.UpdateProduct))
	router.PATCH("/api/admin/products/:id/publish", admin(products.TogglePublish))
	router.DELETE("/api/admin/products/:id", admin(products.DeleteProduct))

	router.GET("/api/admin/categories", admin(categories.GetAllCategories))
	router.POST("/api/admin/categories", admin(categories.AddCategory))
	router.PUT("/api/admin/categories/:id", admin(categories.UpdateCategory))
	router.PATCH("/api/admin/categories/:id/publish", admin(categories.TogglePublish))
	router.DELETE("/api/admin/categories/:id", admin(categories.DeleteCategory))

	router.GET("/api/admin/orders", admin(orders.GetAllOrders))
	router.PATCH("/api/admin/orders/:id/status",
		admin(metrics.Instrument("/api/admin/orders/:id/status", orders.UpdateOrderStatus)))
	router.GET("/api/admin/orders/updates", orders.ServeWS)

	router.GET("/api/admin/customers", admin(customers.GetAllCustomers))
	router.GET("/api/admin/customers/:id", admin(customers.GetCustomerByID))
	router.PATCH("/api/admin/customers/:id/active", admin(customers.ToggleActive))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/*filepath", http.Dir("uploads"))
}
