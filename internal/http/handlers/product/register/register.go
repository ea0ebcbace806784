// Package register реализует HTTP-обработчик регистрации кода продукта.
//
// Handler извлекает код из URL-параметров, валидирует JSON-тело с ID
// пользователя, вызывает бизнес-логику начисления баллов и возвращает
// итог регистрации в JSON-формате.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/loyalty-rewards/internal/http/response"
	"github.com/magabrotheeeer/loyalty-rewards/internal/lib/sl"
	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/redemption"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// Handler управляет HTTP-запросами на регистрацию кодов продуктов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики регистрации кодов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации кода продукта.
type Service interface {
	RegisterProduct(ctx context.Context, code string, userID int) (*redemption.RegistrationResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать код продукта
// @Description Начисляет участнику баллы за регистрацию кода продукта. Возвращает продукт, начисленные баллы и новый баланс.
// @Tags Products
// @Accept  json
// @Produce  json
// @Param code path string true "Код продукта"
// @Param request body models.DummyRegistration true "ID участника"
// @Success 200 {object} response.Response "Итог регистрации"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Продукт или участник не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/register/{code} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := chi.URLParam(r, "code")
	if code == "" {
		log.Error("product code is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("product code is required"))
		return
	}

	var req models.DummyRegistration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.RegisterProduct(r.Context(), code, req.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("product or user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product or user not found"))
			return
		}
		log.Error("failed to register product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register product"))
		return
	}

	log.Info("success to register product",
		slog.String("code", code),
		slog.Int("user_id", req.UserID),
		slog.Int("points_earned", result.PointsEarned))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": result,
	}))
}
