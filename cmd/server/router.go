package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/marketplace-shop/internal/app/handlers"
	"github.com/linemk/marketplace-shop/internal/cart"
	"github.com/linemk/marketplace-shop/internal/inflight"
	"github.com/linemk/marketplace-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/marketplace-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/marketplace-shop/internal/service"
	"github.com/linemk/marketplace-shop/internal/storage"
	"github.com/linemk/marketplace-shop/internal/storage/kv"
)

// routerDeps всё, что нужно для сборки HTTP API
type routerDeps struct {
	Log           *slog.Logger
	DB            *sql.DB
	CartKV        kv.Store
	CartKeyPrefix string
	JWTSecret     []byte
	TokenTTL      time.Duration
}

func newRouter(deps routerDeps) http.Handler {
	log := deps.Log

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(deps.DB)
	productRepo := storage.NewProductRepository(deps.DB)
	orderRepo := storage.NewOrderRepository(deps.DB)
	carts := cart.NewStore(log, deps.CartKV, deps.CartKeyPrefix)

	// один guard на процесс: ключи корзин и заказов не пересекаются
	guard := inflight.NewGuard()

	authService := service.NewAuthService(log, userRepo, deps.JWTSecret, deps.TokenTTL)
	cartService := service.NewCartService(log, carts, productRepo)
	checkoutService := service.NewCheckoutService(log, carts, productRepo, orderRepo, guard)
	orderService := service.NewOrderService(log, orderRepo, guard)

	// эндпоинты для регистрации и аутентификации
	router.Post("/api/auth/register", handlers.RegisterHandler(log, authService))
	router.Post("/api/auth", handlers.AuthHandler(log, authService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware(deps.JWTSecret)
		r.Use(jwtMW)

		// корзина
		r.Get("/api/cart", handlers.GetCartHandler(log, cartService))
		r.Delete("/api/cart", handlers.ClearCartHandler(log, cartService))
		r.Post("/api/cart/refresh", handlers.RefreshCartHandler(log, cartService))
		r.Post("/api/cart/items", handlers.AddCartItemHandler(log, cartService))
		r.Put("/api/cart/items/{productID}", handlers.SetCartItemHandler(log, cartService))
		r.Delete("/api/cart/items/{productID}", handlers.RemoveCartItemHandler(log, cartService))

		// оформление корзины целиком
		r.Post("/api/checkout", handlers.CheckoutHandler(log, checkoutService))

		// заказы покупателя и продавца
		r.Get("/api/orders", handlers.ListOrdersHandler(log, orderService))
		r.Post("/api/orders/{orderID}/{action}", handlers.TransitionOrderHandler(log, orderService))
	})

	return router
}
