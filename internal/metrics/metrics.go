// Package metrics содержит счётчики Prometheus для операций программы
// лояльности. Значения отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductRegistrations — количество успешных регистраций кодов продуктов.
	ProductRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_product_registrations_total",
		Help: "Total number of successful product code registrations.",
	})

	// CouponRedemptions — количество успешных обменов баллов на купоны.
	CouponRedemptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_coupon_redemptions_total",
		Help: "Total number of successful coupon redemptions.",
	})

	// CouponUses — количество успешных использований экземпляров купонов.
	CouponUses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_coupon_uses_total",
		Help: "Total number of successful coupon instance uses.",
	})

	// PointsEarned — суммарно начисленные баллы.
	PointsEarned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_earned_total",
		Help: "Total points credited for product registrations.",
	})

	// PointsSpent — суммарно списанные баллы.
	PointsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_points_spent_total",
		Help: "Total points debited for coupon redemptions.",
	})
)
