package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/handlers/admin"
	paymenthandler "storefront_back_end/internal/handlers/payment"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

const sessionMaxAge = 86400 * 30

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	conns := database.ConnectDatabases(cfg)
	store := cache.NewStore(conns.Redis)
	cartEvents := cache.NewCartEvents(conns.Redis)

	// --- Repositories ---
	users := repository.NewUserRepository(conns.DB)
	userInfos := repository.NewUserInfoRepository(conns.DB)
	products := repository.NewProductRepository(conns.DB)
	userCarts := repository.NewCartRepository(conns.DB)
	guestCarts := cache.NewGuestCartStore(store)
	wishlists := repository.NewWishlistRepository(conns.DB)
	orders := repository.NewOrderRepository(conns.DB)
	checkouts := repository.NewCheckoutRepository(conns.DB)
	coupons := repository.NewCouponRepository(conns.DB)
	auditRepo := auditRepository(conns)

	// --- Services optionnels ---
	var searcher services.Searcher
	if conns.Elastic != nil {
		searcher = services.NewElasticSearcher(conns.Elastic, cfg.ElasticIndex)
	}
	var storage services.ObjectStorage
	if conns.MinIO != nil {
		storage = services.NewMinioStorage(conns.MinIO, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		mailer = utils.NewSMTPMailer(utils.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		log.Println("✅ Envoi d'e-mails activé :", cfg.SMTPHost)
	} else {
		log.Println("⚠️ SMTP non configuré, e-mails désactivés")
	}
	var orderEvents services.OrderEvents = services.NoopOrderEvents{}
	if len(cfg.KafkaBrokers) > 0 {
		orderEvents = services.NewKafkaOrderEvents(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Println("✅ Événements de commande publiés sur Kafka :", cfg.KafkaTopic)
	}

	// --- Services ---
	notifier := services.NewNotifier(mailer, cfg.FrontendURL)
	shipping := services.ShippingRules{Fee: cfg.ShippingFee, FreeThreshold: cfg.FreeShippingThreshold}

	authService := services.NewAuthService(users, notifier, cfg.JWTSecret, cfg.TokenTTL)
	cartService := services.NewCartService(userCarts, guestCarts, products, coupons, cartEvents, shipping)
	catalogService := services.NewCatalogService(products, store, searcher, storage)
	wishlistService := services.NewWishlistService(wishlists, products, store)
	profileService := services.NewProfileService(users, userInfos)
	orderService := services.NewOrderService(orders, orderEvents, notifier)
	couponService := services.NewCouponService(coupons)
	auditService := services.NewAuditService(auditRepo)
	dashboardService := services.NewDashboardService(orderService, users, products)
	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Carts:       cartService,
		Users:       users,
		UserInfos:   userInfos,
		Checkouts:   checkouts,
		Orders:      orders,
		Products:    products,
		Coupons:     coupons,
		CartRepo:    userCarts,
		Tx:          repository.NewMongoTransactor(conns.Mongo),
		Cache:       store,
		Gateway:     paymentGateway(cfg),
		Events:      orderEvents,
		Notifier:    notifier,
		Currency:    cfg.Currency,
		CallbackURL: cfg.FrontendURL + "/checkout/callback",
	})

	// --- Sessions et OAuth ---
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(sessionMaxAge)
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	}
	oauthEnabled := config.SetupOAuth(cfg, sessionStore)
	auth := middleware.NewAuth(sessionStore, cfg.JWTSecret, store)

	// --- HTTP ---
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, &routes.Handlers{
		Auth:  auth,
		Store: store,
		Audit: auditService,
		Health: map[string]handlers.Pinger{
			"mongo": func(ctx context.Context) error { return conns.Mongo.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return conns.Redis.Ping(ctx).Err() },
		},

		Users:    user.NewAuthHandler(authService, auth, cartService, cfg.FrontendURL, oauthEnabled),
		Cart:     user.NewCartHandler(cartService),
		CartWS:   user.NewCartSocket(cartEvents, cartService, cfg.CORSOrigins),
		Wishlist: user.NewWishlistHandler(wishlistService),
		Profile:  user.NewProfileHandler(profileService),
		Orders:   user.NewOrderHandler(orderService),
		Products: product.NewHandler(catalogService),
		Payments: paymenthandler.NewHandler(checkoutService),

		AdminDashboard: admin.NewDashboardHandler(dashboardService),
		AdminProducts:  admin.NewProductHandler(catalogService),
		AdminOrders:    admin.NewOrderHandler(orderService),
		AdminUsers:     admin.NewUserHandler(authService),
		AdminCoupons:   admin.NewCouponHandler(couponService),
		AdminAudit:     admin.NewAuditHandler(auditService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("🚀 Serveur lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Erreur serveur: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
	if err := orderEvents.Close(); err != nil {
		log.Printf("⚠️ Fermeture Kafka: %v", err)
	}
	conns.Close(shutdownCtx)
	log.Println("👋 Serveur arrêté")
}

func paymentGateway(cfg *config.Config) payment.Gateway {
	if cfg.PaymentProvider == "stripe" {
		log.Println("✅ Paiements via Stripe")
		return payment.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
	log.Println("✅ Paiements via Paystack")
	return payment.NewPaystack(cfg.PaystackSecretKey, cfg.PaystackBaseURL, nil)
}

// auditRepository : ScyllaDB si disponible, sinon MongoDB
func auditRepository(conns *database.Connections) repository.AuditRepository {
	if conns.Scylla != nil {
		repo, err := repository.NewScyllaAuditRepository(conns.Scylla)
		if err == nil {
			log.Println("✅ Journal d'audit dans ScyllaDB")
			return repo
		}
		log.Printf("⚠️ Audit ScyllaDB indisponible, repli MongoDB: %v", err)
	}
	return repository.NewMongoAuditRepository(conns.DB)
}
