package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/events"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/orderflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mocks ---

type mockProducts struct {
	products  map[string]*models.Product
	created   int
	deleted   []string
	updateErr error
}

func newMockProducts(products ...*models.Product) *mockProducts {
	m := &mockProducts{products: map[string]*models.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProducts) GetAll(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProducts) Create(ctx context.Context, p *models.Product) (string, error) {
	p.ID = "generated-id"
	m.products[p.ID] = p
	m.created++
	return p.ID, nil
}

func (m *mockProducts) Update(ctx context.Context, id string, p *models.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.products[id]; !ok {
		return database.ErrProductNotFound
	}
	p.ID = id
	m.products[id] = p
	return nil
}

func (m *mockProducts) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return database.ErrProductNotFound
	}
	delete(m.products, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockOrders struct {
	orders    map[string]*models.Order
	statusErr error
}

func newMockOrders(orders ...*models.Order) *mockOrders {
	m := &mockOrders{orders: map[string]*models.Order{}}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrders) GetByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrders) UpdateStatus(ctx context.Context, id, expectedCurrent, newStatus, notes string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	o, ok := m.orders[id]
	if !ok {
		return database.ErrOrderNotFound
	}
	if o.Status != expectedCurrent {
		return database.ErrStatusConflict
	}
	o.Status = newStatus
	return nil
}

type okHealth struct{}

func (okHealth) HealthCheck() error { return nil }

type failingNotifier struct{ err error }

func (n failingNotifier) StatusChanged(context.Context, *models.Order, string, string, bool) error {
	return n.err
}

// --- Helpers ---

const adminToken = "test-admin-token"

func newTestServer(products ProductsProvider, orders OrdersProvider, notifier orderflow.Notifier) (*Server, *events.InProcessBus) {
	bus := events.NewInProcessBus()
	machine := orderflow.NewMachine(notifier)
	srv := NewServer(products, orders, machine, bus, okHealth{}, zap.NewNop(), adminToken)
	return srv, bus
}

func doRequest(srv *Server, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	var reqBody *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:         "O1",
		CustomerID: "C1",
		Status:     models.OrderStatusPending,
		TotalPrice: decimal.NewFromFloat(120.00),
	}
}

// --- Tests ---

func TestAdminRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(newMockProducts(), newMockOrders(), nil)

	rec := doRequest(srv, http.MethodDelete, "/api/products/P1", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/P1", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateProductValidatesAndBroadcasts(t *testing.T) {
	products := newMockProducts()
	srv, bus := newTestServer(products, newMockOrders(), nil)
	ch, cancel := bus.Subscribe()
	defer cancel()

	body := map[string]any{
		"name":     "Oversized Hoodie",
		"category": "clothing",
		"price":    "49.90",
		"colors":   []map[string]any{{"name": "Black", "code": "#1a1a1a", "stock": 3}},
		"sizes":    []map[string]any{{"size": "M", "stock": 5}},
	}
	rec := doRequest(srv, http.MethodPost, "/api/products", body, true)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, products.created)

	select {
	case evt := <-ch:
		assert.Equal(t, "product-create", evt.Source)
	default:
		t.Fatal("productsUpdated not broadcast")
	}
}

func TestCreateProductRejectsNegativeStock(t *testing.T) {
	srv, _ := newTestServer(newMockProducts(), newMockOrders(), nil)

	body := map[string]any{
		"name":     "Oversized Hoodie",
		"category": "clothing",
		"price":    "49.90",
		"colors":   []map[string]any{{"name": "Black", "stock": -2}},
	}
	rec := doRequest(srv, http.MethodPost, "/api/products", body, true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "colors", resp.Field)
}

func TestDeleteProduct(t *testing.T) {
	products := newMockProducts(&models.Product{ID: "P1", Name: "Hoodie"})
	srv, _ := newTestServer(products, newMockOrders(), nil)

	rec := doRequest(srv, http.MethodDelete, "/api/products/P1", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"P1"}, products.deleted)

	rec = doRequest(srv, http.MethodDelete, "/api/products/P1", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatusAppliesLegalTransition(t *testing.T) {
	orders := newMockOrders(pendingOrder())
	srv, _ := newTestServer(newMockProducts(), orders, nil)

	rec := doRequest(srv, http.MethodPut, "/api/admin/orders/O1/status",
		map[string]string{"status": "shipped", "notes": "left warehouse"}, true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderStatusShipped, orders.orders["O1"].Status)

	var resp struct {
		Allowed []string `json:"allowed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"shipped", "delivered"}, resp.Allowed)
}

func TestUpdateOrderStatusRejectsIllegalTransition(t *testing.T) {
	delivered := pendingOrder()
	delivered.Status = models.OrderStatusDelivered
	orders := newMockOrders(delivered)
	srv, _ := newTestServer(newMockProducts(), orders, nil)

	rec := doRequest(srv, http.MethodPut, "/api/admin/orders/O1/status",
		map[string]string{"status": "pending"}, true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.OrderStatusDelivered, orders.orders["O1"].Status, "order untouched")

	var resp struct {
		Field   string   `json:"field"`
		Allowed []string `json:"allowed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "status", resp.Field)
	assert.Equal(t, []string{"delivered"}, resp.Allowed)
}

func TestUpdateOrderStatusConflict(t *testing.T) {
	orders := newMockOrders(pendingOrder())
	orders.statusErr = database.ErrStatusConflict
	srv, _ := newTestServer(newMockProducts(), orders, nil)

	rec := doRequest(srv, http.MethodPut, "/api/admin/orders/O1/status",
		map[string]string{"status": "confirmed"}, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateOrderStatusSurfacesNotifyFailure(t *testing.T) {
	orders := newMockOrders(pendingOrder())
	srv, _ := newTestServer(newMockProducts(), orders,
		failingNotifier{err: assert.AnError})

	rec := doRequest(srv, http.MethodPut, "/api/admin/orders/O1/status",
		map[string]string{"status": "confirmed"}, true)

	// The status change stands even though the notification failed.
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.OrderStatusConfirmed, orders.orders["O1"].Status)

	var resp struct {
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Warning, "notification failed")
}

func TestMyOrdersRequiresCustomer(t *testing.T) {
	srv, _ := newTestServer(newMockProducts(), newMockOrders(pendingOrder()), nil)

	rec := doRequest(srv, http.MethodGet, "/api/orders/my-orders", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/my-orders", nil)
	req.Header.Set("X-Customer-ID", "C1")
	out := httptest.NewRecorder()
	srv.Router().ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "O1", orders[0].ID)
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(newMockProducts(), newMockOrders(), nil)
	rec := doRequest(srv, http.MethodGet, "/api/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront")
}
