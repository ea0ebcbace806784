// Package read реализует HTTP-обработчик для получения новости по ID.
package read

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

// Handler обрабатывает запросы на получение новости по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики новостной ленты
}

// Service описывает интерфейс бизнес-логики чтения новости.
type Service interface {
	NewsItem(ctx context.Context, id int) (*models.NewsItem, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить новость
// @Description Возвращает новость по ID.
// @Tags News
// @Produce  json
// @Param id path int true "ID новости"
// @Success 200 {object} response.Response "Новость"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Новость не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /news/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.news.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	item, err := h.service.NewsItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("news not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("news not found"))
			return
		}
		log.Error("failed to read news", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read news"))
		return
	}

	log.Info("success to read news", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"news": item,
	}))
}
