package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pasarlokal/pasarlokal-backend/api/middleware"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
	"github.com/pasarlokal/pasarlokal-backend/pkg/logger"
)

type captureOrdersService struct {
	created *orders.CreateOrderInput
}

func (s *captureOrdersService) CreateOrder(_ context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	s.created = &input
	return &models.Order{}, nil
}

func (s *captureOrdersService) Transition(context.Context, orders.TransitionInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (s *captureOrdersService) CourierAccepted(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func (s *captureOrdersService) GetOrder(context.Context, uuid.UUID) (*orders.OrderView, error) {
	return &orders.OrderView{}, nil
}

func (s *captureOrdersService) ListOrders(context.Context, orders.ListOrdersInput) (*orders.OrderViewList, error) {
	return &orders.OrderViewList{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test-controllers", Output: io.Discard})
}

func customerRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithActorID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(enums.ActorRoleCustomer))
	return req.WithContext(ctx)
}

func TestCreateOrderAcceptsZeroDistance(t *testing.T) {
	svc := &captureOrdersService{}
	handler := CreateOrder(svc, testLogger())

	body := `{"market_id":"` + uuid.NewString() + `","merchant_ids":["` + uuid.NewString() + `"],"distance_km":0,"items_subtotal_cents":120000}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, customerRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for in-pasar pickup got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.created == nil {
		t.Fatal("expected CreateOrder to be invoked")
	}
	if svc.created.DistanceKM != 0 {
		t.Fatalf("expected distance 0 to pass through got %v", svc.created.DistanceKM)
	}
}

func TestCreateOrderRejectsNegativeDistance(t *testing.T) {
	svc := &captureOrdersService{}
	handler := CreateOrder(svc, testLogger())

	body := `{"market_id":"` + uuid.NewString() + `","merchant_ids":["` + uuid.NewString() + `"],"distance_km":-1.5,"items_subtotal_cents":120000}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, customerRequest(http.MethodPost, "/api/v1/orders", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative distance got %d", resp.Code)
	}
	if svc.created != nil {
		t.Fatal("expected negative distance to stop before the service")
	}
}
