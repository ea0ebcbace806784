// Package instances реализует HTTP-обработчик списка экземпляров купонов
// участника вместе с данными шаблонов.
package instances

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
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// Handler обрабатывает запросы на получение экземпляров купонов участника.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики экземпляров купонов
}

// Service описывает интерфейс бизнес-логики списка экземпляров купонов.
type Service interface {
	Instances(ctx context.Context, userID int) ([]*models.UserCouponInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список купонов участника
// @Description Возвращает экземпляры купонов участника вместе с шаблонами, включая уже использованные.
// @Tags Coupons
// @Produce  json
// @Param id path int true "ID участника"
// @Success 200 {object} response.Response "Список экземпляров"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{id}/coupons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.instances"
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

	infos, err := h.service.Instances(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("user not found", slog.Int("user_id", userID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list user coupons", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list user coupons"))
		return
	}

	log.Info("success to list user coupons",
		slog.Int("user_id", userID),
		slog.Int("count", len(infos)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"coupons": infos,
	}))
}
