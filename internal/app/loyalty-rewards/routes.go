// Package loyaltyrewards предоставляет маршруты для основного приложения.
package loyaltyrewards

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	couponinstances "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/coupon/instances"
	couponlist "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/coupon/list"
	couponredeem "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/coupon/redeem"
	couponuse "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/coupon/use"
	"github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/health"
	newslist "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/news/list"
	newsread "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/news/read"
	productregister "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/product/register"
	usercreate "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/user/create"
	userpoints "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/user/points"
	userread "github.com/magabrotheeeer/loyalty-rewards/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/loyalty-rewards/internal/http/middlewarectx"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/account"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/catalog"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/redemption"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, accountService *account.Service, catalogService *catalog.Service, redemptionService *redemption.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Post("/users", usercreate.New(logger, accountService).ServeHTTP)
		r.Get("/users/{id}", userread.New(logger, accountService).ServeHTTP)
		r.Get("/users/{id}/points", userpoints.New(logger, accountService).ServeHTTP)

		r.Post("/products/register/{code}", productregister.New(logger, redemptionService).ServeHTTP)

		r.Get("/coupons", couponlist.New(logger, catalogService).ServeHTTP)
		r.Post("/users/{id}/redeem-coupon/{coupon_id}", couponredeem.New(logger, redemptionService).ServeHTTP)
		r.Get("/users/{id}/coupons", couponinstances.New(logger, redemptionService).ServeHTTP)
		r.Post("/users/{id}/use-coupon/{user_coupon_id}", couponuse.New(logger, redemptionService).ServeHTTP)

		r.Get("/news", newslist.New(logger, catalogService).ServeHTTP)
		r.Get("/news/{id}", newsread.New(logger, catalogService).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
