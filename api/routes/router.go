package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/everbean/roastery-backend/api/controllers"
	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/internal/analytics"
	"github.com/everbean/roastery-backend/internal/auth"
	"github.com/everbean/roastery-backend/internal/cart"
	"github.com/everbean/roastery-backend/internal/catalog"
	checkoutsvc "github.com/everbean/roastery-backend/internal/checkout"
	"github.com/everbean/roastery-backend/internal/orders"
	"github.com/everbean/roastery-backend/internal/refunds"
	"github.com/everbean/roastery-backend/internal/reviews"
	"github.com/everbean/roastery-backend/internal/wishlist"
	"github.com/everbean/roastery-backend/pkg/config"
	"github.com/everbean/roastery-backend/pkg/db"
	"github.com/everbean/roastery-backend/pkg/logger"
	"github.com/everbean/roastery-backend/pkg/redis"
)

// Params carries everything the route tree needs.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler

	AuthService      auth.Service
	CatalogService   catalog.Service
	CartService      cart.Service
	CheckoutService  checkoutsvc.Service
	OrdersService    orders.Service
	RefundsService   refunds.Service
	ReviewsService   reviews.Service
	WishlistService  wishlist.Service
	AnalyticsService analytics.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	healthCtrl := controllers.NewHealthController(p.DB, p.Redis, logg)
	authCtrl := controllers.NewAuthController(p.AuthService, logg)
	catalogCtrl := controllers.NewCatalogController(p.CatalogService, logg)
	cartCtrl := controllers.NewCartController(p.CartService, logg)
	checkoutCtrl := controllers.NewCheckoutController(p.CheckoutService, logg)
	ordersCtrl := controllers.NewOrdersController(p.OrdersService, logg)
	refundsCtrl := controllers.NewRefundsController(p.RefundsService, logg)
	reviewsCtrl := controllers.NewReviewsController(p.ReviewsService, logg)
	wishlistCtrl := controllers.NewWishlistController(p.WishlistService, logg)
	analyticsCtrl := controllers.NewAnalyticsController(p.AnalyticsService, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", healthCtrl.Healthz)
		r.Get("/ready", healthCtrl.Readyz)
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
				Post("/login", authCtrl.Login)
			r.With(
				middleware.AuthRateLimit(registerPolicy, p.Redis, logg),
				middleware.Idempotency(p.Redis, logg),
			).Post("/register", authCtrl.Register)
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", authCtrl.Me)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogCtrl.ListProducts)
			r.Get("/search", catalogCtrl.SearchProducts)
			r.Get("/{productID}", catalogCtrl.GetProduct)
			r.Get("/{productID}/reviews", reviewsCtrl.ListForProduct)
			r.With(
				middleware.Auth(cfg.JWT, logg),
				middleware.Idempotency(p.Redis, logg),
			).Post("/{productID}/reviews", reviewsCtrl.Create)
		})
		r.Get("/variants/{variantID}", catalogCtrl.GetVariant)
		r.Get("/categories", catalogCtrl.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(p.Redis, logg))

			r.Get("/profile/addresses", authCtrl.ListAddresses)
			r.Post("/profile/addresses", authCtrl.AddAddress)
			r.Put("/profile/addresses/{addressID}", authCtrl.UpdateAddress)
			r.Delete("/profile/addresses/{addressID}", authCtrl.RemoveAddress)

			r.Get("/cart", cartCtrl.Get)
			r.Put("/cart", cartCtrl.Sync)
			r.Post("/cart/items", cartCtrl.AddItem)
			r.Patch("/cart/items/{itemID}", cartCtrl.AdjustItem)
			r.Delete("/cart/items/{itemID}", cartCtrl.RemoveItem)

			r.Post("/checkout", checkoutCtrl.Checkout)

			r.Get("/orders", ordersCtrl.ListMine)
			r.Get("/orders/{orderID}/invoice", ordersCtrl.Invoice)
			r.Post("/orders/{orderID}/cancel", ordersCtrl.Cancel)

			r.Post("/refunds", refundsCtrl.Create)

			r.Get("/wishlist", wishlistCtrl.List)
			r.Put("/wishlist/{variantID}", wishlistCtrl.Add)
			r.Delete("/wishlist/{variantID}", wishlistCtrl.Remove)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly(logg))

				r.Post("/admin/products", catalogCtrl.CreateProduct)
				r.Put("/admin/products/{productID}", catalogCtrl.UpdateProduct)
				r.Delete("/admin/products/{productID}", catalogCtrl.DeleteProduct)
				r.Post("/admin/products/{productID}/variants", catalogCtrl.AddVariant)
				r.Put("/admin/variants/{variantID}/stock", catalogCtrl.UpdateVariantStock)
				r.Delete("/admin/variants/{variantID}", catalogCtrl.DeleteVariant)
				r.Post("/admin/variants/{variantID}/discounts", catalogCtrl.CreateDiscount)
				r.Post("/admin/categories", catalogCtrl.CreateCategory)
				r.Delete("/admin/categories/{categoryID}", catalogCtrl.DeleteCategory)

				r.Get("/admin/orders", ordersCtrl.ListAll)
				r.Patch("/admin/orders/{orderID}/status", ordersCtrl.UpdateStatus)

				r.Get("/admin/refunds", refundsCtrl.List)
				r.Post("/admin/refunds/{refundID}/approve", refundsCtrl.Approve)
				r.Post("/admin/refunds/{refundID}/reject", refundsCtrl.Reject)

				r.Get("/admin/reviews/pending", reviewsCtrl.ListPending)
				r.Post("/admin/reviews/{reviewID}/approve", reviewsCtrl.Approve)
				r.Post("/admin/reviews/{reviewID}/reject", reviewsCtrl.Reject)

				r.Get("/admin/analytics/sales", analyticsCtrl.Sales)
				r.Get("/admin/analytics/refunds", analyticsCtrl.Refunds)
			})
		})
	})

	return r
}
