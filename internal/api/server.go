package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/service/cart"
	"github.com/vladislavdragonenkov/canteen/internal/service/notification"
	"github.com/vladislavdragonenkov/canteen/internal/service/order"
	"github.com/vladislavdragonenkov/canteen/internal/service/search"
)

// Server — JSON HTTP API, которым страница управляет корзиной, заказами,
// уведомлениями и поиском. Хендлеры никогда не отдают внутренние сбои
// наружу как паники: любой отказ превращается в JSON-ошибку и тост.
type Server struct {
	cart          *cart.Manager
	orders        *order.Manager
	notifications *notification.Manager
	index         *search.Index
	panels        *PanelState
	canteens      []domain.Canteen
	menu          []domain.MenuItem
	logger        *log.Entry
}

// NewServer конструирует API-сервер с явными зависимостями.
func NewServer(
	cartMgr *cart.Manager,
	orderMgr *order.Manager,
	notificationMgr *notification.Manager,
	index *search.Index,
	panels *PanelState,
	canteens []domain.Canteen,
	menu []domain.MenuItem,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "api")
	}
	return &Server{
		cart:          cartMgr,
		orders:        orderMgr,
		notifications: notificationMgr,
		index:         index,
		panels:        panels,
		canteens:      canteens,
		menu:          menu,
		logger:        logger,
	}
}

// Handler собирает маршруты API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/menu", s.handleMenu)

	mux.HandleFunc("GET /api/cart", s.handleCartGet)
	mux.HandleFunc("POST /api/cart/items", s.handleCartAdd)
	mux.HandleFunc("POST /api/cart/items/{index}/quantity", s.handleCartQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{index}", s.handleCartRemove)
	mux.HandleFunc("POST /api/cart/clear", s.handleCartClear)
	mux.HandleFunc("POST /api/cart/hide", s.handleCartHide)

	mux.HandleFunc("POST /api/orders", s.handleOrderPlace)
	mux.HandleFunc("POST /api/orders/checkout", s.handleCheckout)
	mux.HandleFunc("GET /api/orders", s.handleOrdersGet)
	mux.HandleFunc("POST /api/orders/{token}/status", s.handleOrderStatus)

	mux.HandleFunc("GET /api/notifications", s.handleNotificationsGet)
	mux.HandleFunc("GET /api/notifications/{id}", s.handleNotificationDetails)
	mux.HandleFunc("POST /api/notifications/{id}/read", s.handleNotificationRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleNotificationDelete)
	mux.HandleFunc("POST /api/notifications/clear", s.handleNotificationsClear)
	mux.HandleFunc("POST /api/notifications/panel", s.handleNotificationsPanel)

	mux.HandleFunc("GET /api/search", s.handleSearch)

	mux.HandleFunc("GET /api/toasts", s.handleToastsGet)
	mux.HandleFunc("DELETE /api/toasts/{id}", s.handleToastDismiss)

	mux.HandleFunc("GET /api/ui", s.handleUIState)

	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("failed to encode response")
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError переводит доменную ошибку в HTTP-статус и JSON-тело.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrStateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrMaxQuantity),
		errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrCorruptState):
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return false
	}
	return true
}
