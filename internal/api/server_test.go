package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/canteen/internal/api"
	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/events"
	"github.com/vladislavdragonenkov/canteen/internal/metrics"
	"github.com/vladislavdragonenkov/canteen/internal/service/cart"
	"github.com/vladislavdragonenkov/canteen/internal/service/notification"
	"github.com/vladislavdragonenkov/canteen/internal/service/order"
	"github.com/vladislavdragonenkov/canteen/internal/service/search"
	"github.com/vladislavdragonenkov/canteen/internal/storage/memory"
)

type testStack struct {
	handler       http.Handler
	cart          *cart.Manager
	orders        *order.Manager
	notifications *notification.Manager
	panels        *api.PanelState
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	entry := logger.WithField("component", "api-test")

	store := memory.New()
	m := metrics.NewCanteenMetrics()
	bus := events.NewBus()
	panels := api.NewPanelState()

	toasts := notification.NewPresenter(time.Hour, time.Hour, m, entry)
	t.Cleanup(toasts.Close)

	notificationMgr := notification.NewManager(store, toasts, panels, bus, m, entry)
	cartMgr := cart.NewManager(store, notificationMgr, panels, bus, m, entry)
	orderMgr := order.NewManager(store, cartMgr, notificationMgr, bus, m, entry)

	canteens := []domain.Canteen{
		{ID: "common", Name: "Common Canteen", Description: "Main dining hall"},
	}
	menu := []domain.MenuItem{
		{Number: "1", Name: "Masala Dosa", Description: "Crispy dosa", Price: 50, Canteen: "Common Canteen"},
	}
	index := search.NewIndex(canteens, menu, notificationMgr, orderMgr, entry)
	index.Bind(bus)

	server := api.NewServer(cartMgr, orderMgr, notificationMgr, index, panels, canteens, menu, entry)
	return &testStack{
		handler:       server.Handler(),
		cart:          cartMgr,
		orders:        orderMgr,
		notifications: notificationMgr,
		panels:        panels,
	}
}

func (ts *testStack) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type cartBody struct {
	Items     []domain.CartLine `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func TestCartAddAndMerge(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Masala Dosa", "price": 50})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Masala Dosa", "price": 50})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody[cartBody](t, rec)
	require.Len(t, body.Items, 1)
	require.Equal(t, 2, body.Items[0].Quantity)
	require.Equal(t, float64(100), body.Total)
	require.Equal(t, 2, body.ItemCount)
}

func TestCartAddValidation(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "", "price": 50})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Dosa", "price": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader([]byte("{not json")))
	rec2 := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestCartMaxQuantityConflict(t *testing.T) {
	ts := newTestStack(t)

	for i := 0; i < domain.MaxQuantity; i++ {
		rec := ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartQuantityAndRemove(t *testing.T) {
	ts := newTestStack(t)
	ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})

	rec := ts.do(t, http.MethodPost, "/api/cart/items/0/quantity", map[string]any{"delta": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[cartBody](t, rec)
	require.Equal(t, 3, body.Items[0].Quantity)

	// Падение ниже единицы удаляет позицию.
	rec = ts.do(t, http.MethodPost, "/api/cart/items/0/quantity", map[string]any{"delta": -3})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[cartBody](t, rec)
	require.Empty(t, body.Items)

	rec = ts.do(t, http.MethodDelete, "/api/cart/items/5", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/cart/items/abc", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartClear(t *testing.T) {
	ts := newTestStack(t)
	ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})

	rec := ts.do(t, http.MethodPost, "/api/cart/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody[cartBody](t, rec).Items)
}

type checkoutBody struct {
	TokenNumber string `json:"tokenNumber"`
}

type ordersBody struct {
	Orders []domain.Order `json:"orders"`
}

func TestCheckoutFlow(t *testing.T) {
	ts := newTestStack(t)
	ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Masala Dosa", "price": 50})
	ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})

	rec := ts.do(t, http.MethodPost, "/api/orders/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeBody[checkoutBody](t, rec).TokenNumber
	require.NotEmpty(t, token)

	// Корзина очищена, панель скрыта.
	rec = ts.do(t, http.MethodGet, "/api/cart", nil)
	require.Empty(t, decodeBody[cartBody](t, rec).Items)

	rec = ts.do(t, http.MethodGet, "/api/orders?token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody[ordersBody](t, rec).Orders
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, token, o.TokenNumber)
		require.Equal(t, domain.OrderStatusPending, o.Status)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodPost, "/api/orders/checkout", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceSingleOrder(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodPost, "/api/orders", map[string]any{"name": "Vada", "price": 20, "quantity": 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decodeBody[domain.Order](t, rec)
	require.Equal(t, "Vada", placed.Item)
	require.NotEmpty(t, placed.TokenNumber)

	rec = ts.do(t, http.MethodPost, "/api/orders", map[string]any{"name": "Vada", "price": 20, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderStatusUpdate(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodPost, "/api/orders", map[string]any{"name": "Vada", "price": 20, "quantity": 1})
	token := decodeBody[domain.Order](t, rec).TokenNumber

	rec = ts.do(t, http.MethodPost, fmt.Sprintf("/api/orders/%s/status", token), map[string]any{"status": "preparing"})
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody[ordersBody](t, rec).Orders
	require.Equal(t, domain.OrderStatusPreparing, orders[0].Status)

	// Перескок через статус отклоняется графом переходов.
	rec = ts.do(t, http.MethodPost, fmt.Sprintf("/api/orders/%s/status", token), map[string]any{"status": "completed"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, fmt.Sprintf("/api/orders/%s/status", token), map[string]any{"status": "burnt"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/orders/T0000000/status", map[string]any{"status": "preparing"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type notificationsBody struct {
	Notifications []struct {
		domain.Notification
		TimeAgo string `json:"timeAgo"`
	} `json:"notifications"`
	Unread int `json:"unread"`
}

func TestNotificationsLifecycle(t *testing.T) {
	ts := newTestStack(t)
	require.NoError(t, ts.notifications.Add("Order Ready", "Your dosa is ready", domain.NotificationSuccess))

	rec := ts.do(t, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[notificationsBody](t, rec)
	require.Len(t, body.Notifications, 1)
	require.Equal(t, 1, body.Unread)
	require.Equal(t, "Just now", body.Notifications[0].TimeAgo)
	id := body.Notifications[0].ID

	rec = ts.do(t, http.MethodPost, "/api/notifications/"+id+"/read", nil)
	body = decodeBody[notificationsBody](t, rec)
	require.Equal(t, 0, body.Unread)

	rec = ts.do(t, http.MethodDelete, "/api/notifications/"+id, nil)
	body = decodeBody[notificationsBody](t, rec)
	require.Empty(t, body.Notifications)
}

func TestNotificationDetailsMarksRead(t *testing.T) {
	ts := newTestStack(t)
	require.NoError(t, ts.notifications.Add("Order Ready", "Your dosa is ready", domain.NotificationSuccess))
	id := ts.notifications.Snapshot()[0].ID

	rec := ts.do(t, http.MethodGet, "/api/notifications/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, ts.notifications.Unread())

	rec = ts.do(t, http.MethodGet, "/api/notifications/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationsClear(t *testing.T) {
	ts := newTestStack(t)
	require.NoError(t, ts.notifications.Add("A", "first", domain.NotificationInfo))
	require.NoError(t, ts.notifications.Add("B", "second", domain.NotificationInfo))

	rec := ts.do(t, http.MethodPost, "/api/notifications/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[notificationsBody](t, rec)
	require.Empty(t, body.Notifications)
	require.Equal(t, 0, body.Unread)
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodGet, "/api/search?q=dosa", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeBody[search.Results](t, rec)
	require.True(t, results.Active)
	require.NotEmpty(t, results.Groups)

	rec = ts.do(t, http.MethodGet, "/api/search?q=", nil)
	results = decodeBody[search.Results](t, rec)
	require.False(t, results.Active)
}

type uiBody struct {
	CartOpen          bool `json:"cartOpen"`
	NotificationsOpen bool `json:"notificationsOpen"`
	CartItemCount     int  `json:"cartItemCount"`
	UnreadCount       int  `json:"unreadCount"`
}

func TestPanelsAreMutuallyExclusive(t *testing.T) {
	ts := newTestStack(t)

	// Добавление в корзину открывает её панель.
	ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})
	rec := ts.do(t, http.MethodGet, "/api/ui", nil)
	body := decodeBody[uiBody](t, rec)
	require.True(t, body.CartOpen)
	require.False(t, body.NotificationsOpen)
	require.Equal(t, 1, body.CartItemCount)

	rec = ts.do(t, http.MethodPost, "/api/notifications/panel", map[string]any{"open": true})
	require.Equal(t, http.StatusNoContent, rec.Code)
	body = decodeBody[uiBody](t, ts.do(t, http.MethodGet, "/api/ui", nil))
	require.False(t, body.CartOpen)
	require.True(t, body.NotificationsOpen)

	rec = ts.do(t, http.MethodPost, "/api/cart/hide", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestToastsEndpoint(t *testing.T) {
	ts := newTestStack(t)
	ts.do(t, http.MethodPost, "/api/cart/items", map[string]any{"name": "Idli", "price": 30})

	rec := ts.do(t, http.MethodGet, "/api/toasts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toasts struct {
		Toasts []notification.Toast `json:"toasts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&toasts))
	require.NotEmpty(t, toasts.Toasts)

	rec = ts.do(t, http.MethodDelete, "/api/toasts/"+toasts.Toasts[0].ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMenuEndpoint(t *testing.T) {
	ts := newTestStack(t)

	rec := ts.do(t, http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Canteens []domain.Canteen  `json:"canteens"`
		Items    []domain.MenuItem `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Canteens, 1)
	require.Len(t, body.Items, 1)
}
