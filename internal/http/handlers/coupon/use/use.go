// Package use реализует HTTP-обработчик использования экземпляра купона.
//
// Handler извлекает ID участника и экземпляра из URL-параметров, вызывает
// бизнес-логику одноразового использования и возвращает обновленный
// экземпляр в JSON-формате.
package use

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

// Handler управляет HTTP-запросами на использование экземпляров купонов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики использования купонов
}

// Service описывает интерфейс бизнес-логики использования экземпляра купона.
type Service interface {
	UseCoupon(ctx context.Context, userID, userCouponID int) (*redemption.UseResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Использовать купон
// @Description Помечает экземпляр купона использованным. Операция одноразовая: повторная попытка отклоняется.
// @Tags Coupons
// @Produce  json
// @Param id path int true "ID участника"
// @Param user_coupon_id path int true "ID экземпляра купона"
// @Success 200 {object} response.Response "Итог использования"
// @Failure 400 {object} response.ErrorResponse "Купон уже использован"
// @Failure 403 {object} response.ErrorResponse "Купон принадлежит другому участнику"
// @Failure 404 {object} response.ErrorResponse "Участник или экземпляр не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{id}/use-coupon/{user_coupon_id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.use"
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
	userCouponID, err := strconv.Atoi(chi.URLParam(r, "user_coupon_id"))
	if err != nil {
		log.Error("failed to decode user coupon id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode user coupon id from url"))
		return
	}

	result, err := h.service.UseCoupon(r.Context(), userID, userCouponID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Error("user or coupon instance not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user or coupon not found"))
		case errors.Is(err, redemption.ErrNotCouponOwner):
			log.Error("coupon belongs to another user",
				slog.Int("user_id", userID),
				slog.Int("user_coupon_id", userCouponID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not authorized to use this coupon"))
		case errors.Is(err, redemption.ErrCouponAlreadyUsed):
			log.Error("coupon already used", slog.Int("user_coupon_id", userCouponID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("coupon already used"))
		default:
			log.Error("failed to use coupon", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not use coupon"))
		}
		return
	}

	log.Info("success to use coupon",
		slog.Int("user_id", userID),
		slog.Int("user_coupon_id", userCouponID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": result,
	}))
}
