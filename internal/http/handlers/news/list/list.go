// Package list реализует HTTP-обработчик списка опубликованных новостей.
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

// Handler обрабатывает запросы на получение списка новостей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики новостной ленты
}

// Service описывает интерфейс бизнес-логики новостной ленты.
type Service interface {
	PublishedNews(ctx context.Context) ([]*models.NewsItem, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список новостей
// @Description Возвращает опубликованные новости в порядке добавления.
// @Tags News
// @Produce  json
// @Success 200 {object} response.Response "Список новостей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /news [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.news.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	news, err := h.service.PublishedNews(r.Context())
	if err != nil {
		log.Error("failed to list news", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list news"))
		return
	}

	log.Info("success to list news", slog.Int("count", len(news)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"news": news,
	}))
}
