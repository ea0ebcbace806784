// Package redeem реализует HTTP-обработчик обмена баллов на купон.
//
// Handler извлекает ID участника и купона из URL-параметров, вызывает
// бизнес-логику обмена и возвращает итог с остатком баланса в JSON-формате.
package redeem

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/loyalty-rewards/internal/http/response"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/redemption"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// Handler управляет HTTP-запросами на обмен баллов на купоны.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики обмена баллов
}

// Service описывает интерфейс бизнес-логики обмена баллов на купон.
type Service interface {
	RedeemCoupon(ctx context.Context, userID, couponID int) (*redemption.RedemptionResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обменять баллы на купон
// @Description Списывает стоимость купона с баланса участника и выдает экземпляр купона. Проверка баланса и списание атомарны для пользователя.
// @Tags Coupons
// @Produce  json
// @Param id path int true "ID участника"
// @Param coupon_id path int true "ID шаблона купона"
// @Success 200 {object} response.Response "Итог обмена"
// @Failure 400 {object} response.ErrorResponse "Недостаточно баллов или купон неактивен"
// @Failure 404 {object} response.ErrorResponse "Участник или купон не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{id}/redeem-coupon/{coupon_id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.redeem"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode user id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode user id from url"))
		return
	}
	couponID, err := strconv.Atoi(chi.URLParam(r, "coupon_id"))
	if err != nil {
		log.Error("failed to decode coupon id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode coupon id from url"))
		return
	}

	result, err := h.service.RedeemCoupon(r.Context(), userID, couponID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("user or coupon not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user or coupon not found"))
		case errors.Is(err, redemption.ErrCouponInactive):
			log.Error("coupon is not active", slog.Int("coupon_id", couponID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("coupon is not active"))
		case errors.Is(err, redemption.ErrInsufficientPoints):
			log.Error("not enough points", slog.Int("user_id", userID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("not enough points"))
		default:
			log.Error("failed to redeem coupon", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not redeem coupon"))
		}
		return
	}

	log.Info("success to redeem coupon",
		slog.Int("user_id", userID),
		slog.Int("coupon_id", couponID),
		slog.Int("remaining_points", result.RemainingPoints))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": result,
	}))
}
