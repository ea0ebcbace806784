// Package list реализует HTTP-обработчик списка активных шаблонов купонов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/loyalty-rewards/internal/http/response"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
)

// Handler обрабатывает запросы на получение списка активных купонов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога купонов
}

// Service описывает интерфейс бизнес-логики каталога купонов.
type Service interface {
	ActiveCoupons(ctx context.Context) ([]*models.Coupon, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список активных купонов
// @Description Возвращает активные шаблоны купонов в порядке добавления.
// @Tags Coupons
// @Produce  json
// @Success 200 {object} response.Response "Список купонов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /coupons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	coupons, err := h.service.ActiveCoupons(r.Context())
	if err != nil {
		log.Error("failed to list coupons", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list coupons"))
		return
	}

	log.Info("success to list coupons", slog.Int("count", len(coupons)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"coupons": coupons,
	}))
}
