package redeem

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/loyalty-rewards/internal/models"
	"github.com/magabrotheeeer/loyalty-rewards/internal/services/redemption"
	"github.com/magabrotheeeer/loyalty-rewards/internal/storage"
)

// MockService реализует интерфейс redeem.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RedeemCoupon(ctx context.Context, userID, couponID int) (*redemption.RedemptionResult, error) {
	args := m.Called(ctx, userID, couponID)
	if res := args.Get(0); res != nil {
		return res.(*redemption.RedemptionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRedeemHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		userID         string
		couponID       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешный обмен баллов",
			userID:   "1",
			couponID: "2",
			setupMock: func(m *MockService) {
				result := &redemption.RedemptionResult{
					Coupon:          &models.Coupon{ID: 2, Name: "Sample", PointsRequired: 50, IsActive: true},
					PointsSpent:     50,
					RemainingPoints: 0,
				}
				m.On("RedeemCoupon", mock.Anything, 1, 2).Return(result, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"points_spent":50`,
		},
		{
			name:           "некорректный id участника",
			userID:         "abc",
			couponID:       "2",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode user id from url"`,
		},
		{
			name:     "недостаточно баллов",
			userID:   "1",
			couponID: "2",
			setupMock: func(m *MockService) {
				m.On("RedeemCoupon", mock.Anything, 1, 2).Return(nil, redemption.ErrInsufficientPoints)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"not enough points"`,
		},
		{
			name:     "купон неактивен",
			userID:   "1",
			couponID: "2",
			setupMock: func(m *MockService) {
				m.On("RedeemCoupon", mock.Anything, 1, 2).Return(nil, redemption.ErrCouponInactive)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"coupon is not active"`,
		},
		{
			name:     "купон не найден",
			userID:   "1",
			couponID: "999",
			setupMock: func(m *MockService) {
				m.On("RedeemCoupon", mock.Anything, 1, 999).Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user or coupon not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/users/"+tt.userID+"/redeem-coupon/"+tt.couponID, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.userID)
			rctx.URLParams.Add("coupon_id", tt.couponID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
