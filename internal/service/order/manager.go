package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/events"
	"github.com/vladislavdragonenkov/canteen/internal/metrics"
)

// Manager владеет списком оформленных заказов. Заказы хранятся в порядке
// оформления; при превышении максимума старейшие вытесняются. Оформление
// всей корзины выполняется как одна логическая транзакция: сначала
// валидируются все позиции, и только потом создаются заказы и очищается
// корзина.
type Manager struct {
	mu     sync.Mutex
	orders []domain.Order

	store    domain.StateStore
	cart     domain.CartSource
	notifier domain.Notifier
	bus      *events.Bus
	metrics  *metrics.CanteenMetrics
	logger   *log.Entry

	// strict включает граф переходов статусов; выключается опцией
	// для точной совместимости с прежним поведением.
	strict bool
}

// Option настраивает менеджер заказов при конструировании.
type Option func(*Manager)

// WithUnrestrictedTransitions отключает граф переходов статусов:
// любой статус может сменить любой другой.
func WithUnrestrictedTransitions() Option {
	return func(m *Manager) { m.strict = false }
}

// NewManager конструирует менеджер заказов с явными зависимостями.
func NewManager(
	store domain.StateStore,
	cart domain.CartSource,
	notifier domain.Notifier,
	bus *events.Bus,
	m *metrics.CanteenMetrics,
	logger *log.Entry,
	opts ...Option,
) *Manager {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	manager := &Manager{
		store:    store,
		cart:     cart,
		notifier: notifier,
		bus:      bus,
		metrics:  m,
		logger:   logger,
		strict:   true,
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// Load восстанавливает заказы из хранилища; повреждённое состояние
// заменяется пустым списком.
func (m *Manager) Load() {
	var orders []domain.Order
	err := m.store.Load(domain.KeyOrders, &orders)
	switch {
	case err == nil:
		m.mu.Lock()
		m.orders = orders
		m.mu.Unlock()
	case domain.IsNotFound(err):
		// Первый запуск: заказов ещё нет.
	default:
		m.logger.WithError(err).Error("failed to load orders state")
		m.metrics.RecordCorruptRecovery()
		m.notifier.Toast("Error", "Failed to load orders", domain.NotificationError)
	}
}

// PlaceSingleOrder оформляет заказ на одну позицию с собственным токеном.
// Возвращает созданный заказ; при невалидном вводе — nil и уведомление
// об ошибке, паника или необработанный сбой исключены.
func (m *Manager) PlaceSingleOrder(name string, price float64, quantity int) (*domain.Order, error) {
	order := domain.Order{
		ID:          uuid.NewString(),
		TokenNumber: m.GenerateToken(),
		Item:        name,
		Price:       price,
		Quantity:    quantity,
		Status:      domain.OrderStatusPending,
		Timestamp:   time.Now().UTC(),
	}
	if err := order.Validate(); err != nil {
		m.logger.WithError(err).WithField("item", name).Warn("rejected invalid order")
		m.notifier.Toast("Error", "Failed to place order", domain.NotificationError)
		return nil, err
	}

	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.evictLocked()
	m.persistLocked()
	m.mu.Unlock()

	m.metrics.RecordOrderPlaced()
	m.bus.Publish(events.EventOrdersChanged)
	m.notifier.Notify(
		"Order Placed Successfully!",
		fmt.Sprintf("Your order for %dx %s has been placed. Token: %s", quantity, name, order.TokenNumber),
		domain.NotificationSuccess,
	)

	return &order, nil
}

// PlaceCartOrder оформляет все позиции корзины одним чекаутом: общий токен,
// общая метка времени. Валидация «всё или ничего»: сбой любой позиции
// оставляет и заказы, и корзину нетронутыми.
func (m *Manager) PlaceCartOrder() (string, error) {
	lines := m.cart.Snapshot()
	if len(lines) == 0 {
		m.notifier.Toast("Error", "Your cart is empty", domain.NotificationError)
		return "", domain.ErrEmptyCart
	}

	token := m.GenerateToken()
	placedAt := time.Now().UTC()

	batch := make([]domain.Order, 0, len(lines))
	for _, line := range lines {
		order := domain.Order{
			ID:          uuid.NewString(),
			TokenNumber: token,
			Item:        line.Name,
			Price:       line.Price,
			Quantity:    line.Quantity,
			Status:      domain.OrderStatusPending,
			Timestamp:   placedAt,
		}
		if err := order.Validate(); err != nil {
			m.logger.WithError(err).WithField("item", line.Name).Warn("cart checkout rejected, invalid line")
			m.notifier.Toast("Error", "Failed to place cart order", domain.NotificationError)
			return "", err
		}
		batch = append(batch, order)
	}

	m.mu.Lock()
	m.orders = append(m.orders, batch...)
	m.evictLocked()
	m.persistLocked()
	m.mu.Unlock()

	for range batch {
		m.metrics.RecordOrderPlaced()
	}
	m.metrics.RecordCheckoutBatch(len(batch))
	m.bus.Publish(events.EventOrdersChanged)
	m.notifier.Notify(
		"Cart Order Placed Successfully!",
		fmt.Sprintf("Your order has been placed. Token: %s", token),
		domain.NotificationSuccess,
	)

	m.cart.Clear()
	m.cart.HidePanel()

	return token, nil
}

// FindByToken возвращает все заказы токена в порядке оформления.
// Неизвестный токен — пустой список, а не ошибка.
func (m *Manager) FindByToken(token string) ([]domain.Order, error) {
	if token == "" {
		return nil, domain.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matches := make([]domain.Order, 0)
	for _, order := range m.orders {
		if order.TokenNumber == token {
			matches = append(matches, order)
		}
	}
	return matches, nil
}

// UpdateStatus переводит все заказы токена в новый статус одним шагом:
// позиции одного чекаута двигаются вместе. В строгом режиме переход
// проверяется по графу статусов для каждой позиции до любой мутации.
func (m *Manager) UpdateStatus(token string, newStatus domain.OrderStatus) error {
	if !domain.ValidStatus(newStatus) {
		m.notifier.Toast("Error", "Invalid order status", domain.NotificationError)
		return domain.ErrInvalidStatus
	}

	m.mu.Lock()
	var indexes []int
	for i, order := range m.orders {
		if order.TokenNumber == token {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		m.mu.Unlock()
		m.notifier.Toast("Error", "Order not found", domain.NotificationError)
		return domain.ErrOrderNotFound
	}

	if m.strict {
		for _, i := range indexes {
			if !domain.CanTransition(m.orders[i].Status, newStatus) {
				from := m.orders[i].Status
				m.mu.Unlock()
				m.notifier.Toast("Error",
					fmt.Sprintf("Cannot move order from %s to %s", from, newStatus),
					domain.NotificationError)
				return domain.ErrInvalidTransition
			}
		}
	}

	for _, i := range indexes {
		m.orders[i].Status = newStatus
	}
	m.persistLocked()
	m.mu.Unlock()

	m.bus.Publish(events.EventOrdersChanged)
	return nil
}

// Snapshot возвращает копию списка заказов в порядке оформления.
func (m *Manager) Snapshot() []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]domain.Order, len(m.orders))
	copy(snapshot, m.orders)
	return snapshot
}

// evictLocked вытесняет старейшие заказы сверх максимума.
func (m *Manager) evictLocked() {
	if len(m.orders) <= domain.MaxOrders {
		return
	}
	over := len(m.orders) - domain.MaxOrders
	m.orders = m.orders[over:]
	for i := 0; i < over; i++ {
		m.metrics.RecordEviction("orders")
	}
}

func (m *Manager) persistLocked() {
	orders := m.orders
	if orders == nil {
		orders = []domain.Order{}
	}
	if err := m.store.Save(domain.KeyOrders, orders); err != nil {
		m.logger.WithError(err).Error("failed to save orders state")
		m.notifier.Toast("Error", "Failed to save orders", domain.NotificationError)
	}
}
