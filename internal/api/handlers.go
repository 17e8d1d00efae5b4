package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/service/notification"
)

// --- Меню ---

type menuResponse struct {
	Canteens []domain.Canteen  `json:"canteens"`
	Items    []domain.MenuItem `json:"items"`
}

func (s *Server) handleMenu(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, menuResponse{Canteens: s.canteens, Items: s.menu})
}

// --- Корзина ---

type cartResponse struct {
	Items     []domain.CartLine `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func (s *Server) cartState() cartResponse {
	return cartResponse{
		Items:     s.cart.Snapshot(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
}

func (s *Server) handleCartGet(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cartState())
}

type cartAddRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.cart.AddItem(req.Name, req.Price); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.cartState())
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleCartQuantity(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, domain.ErrIndexOutOfRange)
		return
	}
	var req quantityRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.cart.UpdateQuantity(index, req.Delta); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.cartState())
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, domain.ErrIndexOutOfRange)
		return
	}
	if err := s.cart.RemoveItem(index); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.cartState())
}

func (s *Server) handleCartClear(w http.ResponseWriter, _ *http.Request) {
	s.cart.Clear()
	s.writeJSON(w, http.StatusOK, s.cartState())
}

func (s *Server) handleCartHide(w http.ResponseWriter, _ *http.Request) {
	s.cart.HidePanel()
	w.WriteHeader(http.StatusNoContent)
}

// --- Заказы ---

type placeOrderRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (s *Server) handleOrderPlace(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !s.decode(w, r, &req) {
		return
	}
	placed, err := s.orders.PlaceSingleOrder(req.Name, req.Price, req.Quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, placed)
}

type checkoutResponse struct {
	TokenNumber string `json:"tokenNumber"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, _ *http.Request) {
	token, err := s.orders.PlaceCartOrder()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, checkoutResponse{TokenNumber: token})
}

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// handleOrdersGet отдаёт все заказы либо, при заданном ?token=,
// только заказы этого токена. Неизвестный токен — пустой список.
func (s *Server) handleOrdersGet(w http.ResponseWriter, r *http.Request) {
	if token := r.URL.Query().Get("token"); token != "" {
		orders, err := s.orders.FindByToken(token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
		return
	}
	s.writeJSON(w, http.StatusOK, ordersResponse{Orders: s.orders.Snapshot()})
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.decode(w, r, &req) {
		return
	}
	token := r.PathValue("token")
	if err := s.orders.UpdateStatus(token, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	orders, err := s.orders.FindByToken(token)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

// --- Уведомления ---

type notificationView struct {
	domain.Notification
	TimeAgo string `json:"timeAgo"`
}

type notificationsResponse struct {
	Notifications []notificationView `json:"notifications"`
	Unread        int                `json:"unread"`
}

func (s *Server) notificationViews() []notificationView {
	now := time.Now().UTC()
	items := s.notifications.Snapshot()
	views := make([]notificationView, 0, len(items))
	for _, n := range items {
		views = append(views, notificationView{
			Notification: n,
			TimeAgo:      notification.FormatTime(n.Time, now),
		})
	}
	return views
}

func (s *Server) handleNotificationsGet(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: s.notificationViews(),
		Unread:        s.notifications.Unread(),
	})
}

// handleNotificationDetails отдаёт уведомление для детального просмотра,
// попутно помечая его прочитанным.
func (s *Server) handleNotificationDetails(w http.ResponseWriter, r *http.Request) {
	n, ok := s.notifications.ShowDetails(r.PathValue("id"))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: "notification not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, notificationView{
		Notification: n,
		TimeAgo:      notification.FormatTime(n.Time, time.Now().UTC()),
	})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.notifications.MarkRead(r.PathValue("id"))
	s.writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: s.notificationViews(),
		Unread:        s.notifications.Unread(),
	})
}

func (s *Server) handleNotificationDelete(w http.ResponseWriter, r *http.Request) {
	s.notifications.Delete(r.PathValue("id"))
	s.writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: s.notificationViews(),
		Unread:        s.notifications.Unread(),
	})
}

func (s *Server) handleNotificationsClear(w http.ResponseWriter, _ *http.Request) {
	s.notifications.ClearAll()
	s.writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: s.notificationViews(),
		Unread:        s.notifications.Unread(),
	})
}

type panelRequest struct {
	Open bool `json:"open"`
}

// handleNotificationsPanel открывает или закрывает панель уведомлений.
func (s *Server) handleNotificationsPanel(w http.ResponseWriter, r *http.Request) {
	var req panelRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Open {
		s.panels.OpenNotifications()
	} else {
		s.panels.CloseNotifications()
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Поиск ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.index.Query(r.URL.Query().Get("q")))
}

// --- Тосты ---

type toastsResponse struct {
	Toasts []notification.Toast `json:"toasts"`
}

func (s *Server) handleToastsGet(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, toastsResponse{Toasts: s.notifications.Toasts().Active()})
}

func (s *Server) handleToastDismiss(w http.ResponseWriter, r *http.Request) {
	s.notifications.Toasts().Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// --- Состояние интерфейса ---

type uiStateResponse struct {
	CartOpen          bool `json:"cartOpen"`
	NotificationsOpen bool `json:"notificationsOpen"`
	CartItemCount     int  `json:"cartItemCount"`
	UnreadCount       int  `json:"unreadCount"`
}

func (s *Server) handleUIState(w http.ResponseWriter, _ *http.Request) {
	cartOpen, notificationsOpen := s.panels.State()
	s.writeJSON(w, http.StatusOK, uiStateResponse{
		CartOpen:          cartOpen,
		NotificationsOpen: notificationsOpen,
		CartItemCount:     s.cart.ItemCount(),
		UnreadCount:       s.notifications.Unread(),
	})
}
