package routes

import (
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/payment"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
)

// Handlers regroupe tout ce que RegisterRoutes monte sur le routeur
type Handlers struct {
	Auth   *middleware.Auth
	Store  *cache.Store
	Audit  middleware.AuditRecorder
	Health map[string]handlers.Pinger

	Users    *user.AuthHandler
	Cart     *user.CartHandler
	CartWS   *user.CartSocket
	Wishlist *user.WishlistHandler
	Profile  *user.ProfileHandler
	Orders   *user.OrderHandler
	Products *product.Handler
	Payments *payment.Handler

	AdminDashboard *admin.DashboardHandler
	AdminProducts  *admin.ProductHandler
	AdminOrders    *admin.OrderHandler
	AdminUsers     *admin.UserHandler
	AdminCoupons   *admin.CouponHandler
	AdminAudit     *admin.AuditHandler
}

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/health", handlers.Health(h.Health))

	// Les prestataires de paiement livrent depuis quelques IP : pas de limite par IP sur le webhook
	r.POST("/api/webhooks/payment", h.Payments.Webhook)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(h.Store, middleware.APIMaxRequests, middleware.APIWindow))

	authRequired := h.Auth.AuthRequired()
	optionalAuth := h.Auth.OptionalAuth()

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", optionalAuth, h.Users.Register)
		auth.POST("/login", middleware.LoginRateLimit(h.Store), optionalAuth, h.Users.Login)
		auth.POST("/logout", authRequired, h.Users.Logout)
		auth.GET("/me", authRequired, h.Users.Me)
		auth.GET("/oauth/:provider", h.Users.BeginOAuth)
		auth.GET("/oauth/:provider/callback", optionalAuth, h.Users.OAuthCallback)
	}

	// Catalogue public
	products := api.Group("/products")
	{
		products.GET("", h.Products.GetProducts)
		products.GET("/search", h.Products.SearchProducts)
		products.GET("/categories", h.Products.GetCategories)
		products.GET("/:slug", h.Products.GetProduct)
		products.GET("/:slug/related", h.Products.GetRelated)
	}

	// Panier : utilisateur connecté ou visiteur
	cart := api.Group("/cart", optionalAuth)
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items", h.Cart.UpdateItem)
		cart.DELETE("/items", h.Cart.RemoveItem)
		cart.POST("/merge", h.Cart.MergeCart)
		cart.POST("/coupon", h.Cart.ApplyCoupon)
		cart.DELETE("/coupon", h.Cart.RemoveCoupon)
		cart.GET("/ws", h.CartWS.Serve)
	}
	api.GET("/shipping", optionalAuth, h.Payments.GetShipping)

	wishlist := api.Group("/wishlist", authRequired)
	{
		wishlist.GET("", h.Wishlist.GetWishlist)
		wishlist.POST("", h.Wishlist.AddToWishlist)
		wishlist.POST("/toggle", h.Wishlist.ToggleWishlist)
		wishlist.DELETE("/:productId", h.Wishlist.RemoveFromWishlist)
	}

	profile := api.Group("/profile", authRequired)
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.UpdateProfile)
		profile.PUT("/password", h.Users.ChangePassword)
	}

	// Paiement et commandes
	api.POST("/checkout", authRequired, h.Payments.Checkout)

	orders := api.Group("/orders", authRequired)
	{
		orders.GET("", h.Orders.GetOrders)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.GET("/reference/:reference", h.Orders.GetOrderByReference)
	}

	// Administration
	adminGroup := api.Group("/admin", authRequired, middleware.RequireAdmin)
	{
		adminGroup.GET("/stats", h.AdminDashboard.GetStats)
		adminGroup.GET("/audit", h.AdminAudit.GetAuditLogs)

		adminProducts := adminGroup.Group("/products", middleware.AuditAdmin(h.Audit, models.ResourceProduct))
		adminProducts.GET("", h.AdminProducts.ListProducts)
		adminProducts.POST("", h.AdminProducts.CreateProduct)
		adminProducts.PUT("/:id", h.AdminProducts.UpdateProduct)
		adminProducts.DELETE("/:id", h.AdminProducts.DeleteProduct)
		adminProducts.POST("/:id/images", h.AdminProducts.UploadImage)
		adminProducts.GET("/:id/images/signed", h.AdminProducts.SignedImages)

		adminOrders := adminGroup.Group("/orders", middleware.AuditAdmin(h.Audit, models.ResourceOrder))
		adminOrders.GET("", h.AdminOrders.ListOrders)
		adminOrders.PATCH("/:id/status", h.AdminOrders.UpdateStatus)

		adminUsers := adminGroup.Group("/users", middleware.AuditAdmin(h.Audit, models.ResourceUser))
		adminUsers.GET("", h.AdminUsers.ListUsers)
		adminUsers.PATCH("/:id/role", h.AdminUsers.UpdateRole)

		adminCoupons := adminGroup.Group("/coupons", middleware.AuditAdmin(h.Audit, models.ResourceCoupon))
		adminCoupons.GET("", h.AdminCoupons.ListCoupons)
		adminCoupons.POST("", h.AdminCoupons.CreateCoupon)
		adminCoupons.PATCH("/:id", h.AdminCoupons.UpdateCoupon)
		adminCoupons.DELETE("/:id", h.AdminCoupons.DeleteCoupon)
	}
}
