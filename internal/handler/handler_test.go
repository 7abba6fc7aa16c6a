package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/stripe"
	"storefront/internal/tests"
)

const webhookSecret = "whsec_handler_test"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router    *gin.Engine
	orders    *tests.MockOrderRepository
	settings  *tests.MockSettingsRepository
	processor *tests.MockProcessor
	notifier  *tests.MockNotifier
	reconcile *service.Reconciler
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()

	orders := tests.NewMockOrderRepository()
	products := tests.NewMockProductRepository()
	products.AddProduct(&domain.Product{ID: "prod-1", Name: "Coffee beans", UnitAmount: 1250, Currency: "usd", Active: true})
	products.AddProduct(&domain.Product{ID: "prod-old", Name: "Retired", UnitAmount: 100, Currency: "usd", Active: false})

	settingsRepo := tests.NewMockSettingsRepository()
	settingsRepo.SetPaymentSettings(&domain.PaymentSettings{ID: "s1", SecretKey: "sk_test_123"})

	processor := tests.NewMockProcessor("cs_test_1")
	notifier := tests.NewMockNotifier()

	settings := service.NewSettingsService(settingsRepo, domain.PaymentSettings{})
	catalog := service.NewCatalogService(products, nil)
	checkout := service.NewCheckoutService(orders, catalog, settings, processor, service.CheckoutURLs{})
	reconciler := service.NewReconciler(orders, settings, stripe.NewVerifier(), notifier, secret)

	router := gin.New()
	router.POST("/v1/webhooks/stripe", NewWebhookHandler(reconciler).HandleStripe)
	router.POST("/v1/checkout", NewCheckoutHandler(checkout).CreateCheckout)
	router.GET("/v1/orders/:id", NewOrderHandler(service.NewOrderService(orders)).GetOrder)
	router.GET("/v1/products", NewProductHandler(catalog).GetAll)
	router.GET("/v1/products/:id", NewProductHandler(catalog).GetProduct)

	t.Cleanup(reconciler.Wait)

	return &testServer{
		router:    router,
		orders:    orders,
		settings:  settingsRepo,
		processor: processor,
		notifier:  notifier,
		reconcile: reconciler,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func webhookRequest(t *testing.T, eventType, sessionID, secret string) *http.Request {
	t.Helper()

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(fmt.Sprintf(
			`{"id":"evt_1","object":"event","type":%q,"data":{"object":{"id":%q,"object":"checkout.session"}}}`,
			eventType, sessionID,
		)),
		Secret:    secret,
		Timestamp: time.Now(),
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", bytes.NewReader(signed.Payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)
	return req
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		SessionID:   "cs_test_1",
		Status:      domain.OrderStatusPending,
		Items:       []domain.LineItem{{ProductID: "prod-1", Name: "Coffee beans", UnitAmount: 1250, Quantity: 1}},
		TotalAmount: 1250,
		Currency:    "usd",
	}
}

// ──────────────────────────────────────────────
// WEBHOOK
// ──────────────────────────────────────────────

func TestWebhook_CompletedEvent_Acknowledged(t *testing.T) {
	s := newTestServer(t, webhookSecret)
	s.orders.AddOrder(pendingOrder())

	w := s.do(webhookRequest(t, service.EventCheckoutSessionCompleted, "cs_test_1", webhookSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	s.reconcile.Wait()
	assert.Equal(t, domain.OrderStatusConfirmed, s.orders.GetOrder("order-1").Status)
	assert.Equal(t, 1, s.notifier.Calls())
}

func TestWebhook_Redelivery_AcknowledgedWithoutSecondNotification(t *testing.T) {
	s := newTestServer(t, webhookSecret)
	s.orders.AddOrder(pendingOrder())

	for i := 0; i < 3; i++ {
		w := s.do(webhookRequest(t, service.EventCheckoutSessionCompleted, "cs_test_1", webhookSecret))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	s.reconcile.Wait()
	assert.Equal(t, 1, s.notifier.Calls())
}

func TestWebhook_UnknownSessionAndEvent_Acknowledged(t *testing.T) {
	s := newTestServer(t, webhookSecret)

	w := s.do(webhookRequest(t, service.EventCheckoutSessionCompleted, "cs_unknown", webhookSecret))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(webhookRequest(t, "payment_intent.created", "pi_1", webhookSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhook_Rejections(t *testing.T) {
	testCases := []struct {
		name       string
		secret     string
		signWith   string
		setup      func(s *testServer)
		wantStatus int
	}{
		{name: "bad signature", secret: webhookSecret, signWith: "whsec_wrong", wantStatus: http.StatusBadRequest},
		{name: "no webhook secret", secret: "", signWith: webhookSecret, wantStatus: http.StatusBadRequest},
		{
			name:       "no payment settings",
			secret:     webhookSecret,
			signWith:   webhookSecret,
			setup:      func(s *testServer) { s.settings.SetPaymentSettings(nil) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage down",
			secret:     webhookSecret,
			signWith:   webhookSecret,
			setup:      func(s *testServer) { s.orders.ConfirmPendingError = tests.ErrStorageDown },
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, tc.secret)
			s.orders.AddOrder(pendingOrder())
			if tc.setup != nil {
				tc.setup(s)
			}

			w := s.do(webhookRequest(t, service.EventCheckoutSessionCompleted, "cs_test_1", tc.signWith))

			assert.Equal(t, tc.wantStatus, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, domain.OrderStatusPending, s.orders.GetOrder("order-1").Status)
			assert.Equal(t, 0, s.notifier.Calls())
		})
	}
}

func TestWebhook_OversizedBody_Rejected(t *testing.T) {
	s := newTestServer(t, webhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", strings.NewReader(strings.Repeat("x", maxWebhookBytes+1)))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), s.orders.ConfirmPendingCallCount)
}

// ──────────────────────────────────────────────
// CHECKOUT / ORDERS / PRODUCTS
// ──────────────────────────────────────────────

func TestCheckout_Created(t *testing.T) {
	s := newTestServer(t, webhookSecret)

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout",
		strings.NewReader(`{"items":[{"product_id":"prod-1","quantity":2}],"customer_email":"buyer@example.com"}`))
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, int64(2500), resp.TotalAmount)
	assert.NotEmpty(t, resp.RedirectURL)
}

func TestCheckout_BadRequests(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "no items", body: `{"items":[]}`, wantStatus: http.StatusBadRequest},
		{name: "bad email", body: `{"items":[{"product_id":"prod-1","quantity":1}],"customer_email":"nope"}`, wantStatus: http.StatusBadRequest},
		{name: "zero quantity", body: `{"items":[{"product_id":"prod-1","quantity":0}]}`, wantStatus: http.StatusBadRequest},
		{name: "inactive product", body: `{"items":[{"product_id":"prod-old","quantity":1}]}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, webhookSecret)

			req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			w := s.do(req)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, 0, s.orders.CountOrders())
		})
	}
}

func TestCheckout_ProcessorDown_BadGateway(t *testing.T) {
	s := newTestServer(t, webhookSecret)
	s.processor.Error = errors.New("stripe unavailable")

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(`{"items":[{"product_id":"prod-1","quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckout_AttachFailure_ServiceUnavailable(t *testing.T) {
	s := newTestServer(t, webhookSecret)
	s.orders.AttachSessionError = repository.ErrNotFound

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(`{"items":[{"product_id":"prod-1","quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWebhook_MalformedSessionObject_Acknowledged(t *testing.T) {
	s := newTestServer(t, webhookSecret)
	s.orders.AddOrder(pendingOrder())

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(`{"id":"evt_bad","object":"event","type":"checkout.session.completed","data":{"object":{"id":12345}}}`),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)

	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
	assert.Equal(t, domain.OrderStatusPending, s.orders.GetOrder("order-1").Status)
}

func TestGetOrder(t *testing.T) {
	s := newTestServer(t, webhookSecret)
	s.orders.AddOrder(pendingOrder())

	w := s.do(httptest.NewRequest(http.MethodGet, "/v1/orders/order-1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order-1", resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	require.Len(t, resp.Items, 1)

	w = s.do(httptest.NewRequest(http.MethodGet, "/v1/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t, webhookSecret)

	w := s.do(httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "prod-1", list[0].ID)

	w = s.do(httptest.NewRequest(http.MethodGet, "/v1/products/prod-old", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrNotConfigured, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", service.ErrInvalidSignature), http.StatusBadRequest},
		{service.ErrEmptyCart, http.StatusBadRequest},
		{service.ErrProductNotFound, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: timeout", service.ErrProcessorUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: down", service.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, mapErrorToHTTPStatus(tc.err), tc.err.Error())
	}
}
