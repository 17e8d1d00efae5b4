package cart

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/events"
	"github.com/vladislavdragonenkov/canteen/internal/metrics"
)

// Manager владеет упорядоченным списком позиций корзины.
// Каждая мутация сохраняет состояние и публикует событие изменения;
// исходы операций сообщаются пользователю через канал тостов.
type Manager struct {
	mu    sync.Mutex
	lines []domain.CartLine

	store    domain.StateStore
	notifier domain.Notifier
	panel    domain.CartPanel
	bus      *events.Bus
	metrics  *metrics.CanteenMetrics
	logger   *log.Entry
}

// NewManager конструирует менеджер корзины с явными зависимостями.
func NewManager(
	store domain.StateStore,
	notifier domain.Notifier,
	panel domain.CartPanel,
	bus *events.Bus,
	m *metrics.CanteenMetrics,
	logger *log.Entry,
) *Manager {
	if logger == nil {
		logger = log.New().WithField("component", "cart")
	}
	return &Manager{
		store:    store,
		notifier: notifier,
		panel:    panel,
		bus:      bus,
		metrics:  m,
		logger:   logger,
	}
}

// Load восстанавливает корзину из хранилища. Повреждённое состояние
// заменяется пустой корзиной и сообщается пользователю; это не фатально.
func (m *Manager) Load() {
	var lines []domain.CartLine
	err := m.store.Load(domain.KeyCart, &lines)
	switch {
	case err == nil:
		m.mu.Lock()
		m.lines = lines
		m.mu.Unlock()
		m.metrics.SetCartLines(len(lines))
	case domain.IsNotFound(err):
		// Первый запуск: корзины ещё нет.
	default:
		m.logger.WithError(err).Error("failed to load cart state")
		m.metrics.RecordCorruptRecovery()
		m.notifier.Toast("Error", "Failed to load cart data. Starting with empty cart.", domain.NotificationError)
	}
}

// AddItem добавляет позицию или увеличивает количество существующей.
// Достигнутый максимум не мутирует строку, но панель корзины показывается
// в любом случае.
func (m *Manager) AddItem(name string, price float64) error {
	if name == "" {
		m.notifier.Toast("Error", "Invalid item name", domain.NotificationError)
		return domain.ErrInvalidInput
	}
	if price <= 0 {
		m.notifier.Toast("Error", "Invalid item price", domain.NotificationError)
		return domain.ErrInvalidInput
	}

	var (
		maxReached bool
		message    string
		msgType    = domain.NotificationSuccess
	)

	m.mu.Lock()
	idx := m.indexOf(name)
	switch {
	case idx >= 0 && m.lines[idx].Quantity < domain.MaxQuantity:
		m.lines[idx].Quantity++
		message = fmt.Sprintf("%s quantity updated in cart", name)
	case idx >= 0:
		maxReached = true
		message = fmt.Sprintf("Maximum quantity (%d) reached for %s", domain.MaxQuantity, name)
		msgType = domain.NotificationWarning
	default:
		m.lines = append(m.lines, domain.CartLine{Name: name, Price: price, Quantity: 1})
		message = fmt.Sprintf("%s added to cart", name)
	}
	m.persistLocked()
	count := len(m.lines)
	m.mu.Unlock()

	m.metrics.RecordCartAdd()
	m.metrics.SetCartLines(count)
	m.bus.Publish(events.EventCartChanged)
	m.notifier.Toast(titleFor(msgType), message, msgType)
	m.panel.ShowCart()

	if maxReached {
		return domain.ErrMaxQuantity
	}
	return nil
}

// UpdateQuantity изменяет количество позиции на delta.
// Падение ниже единицы эквивалентно удалению позиции.
func (m *Manager) UpdateQuantity(index, delta int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.lines) {
		m.mu.Unlock()
		m.notifier.Toast("Error", "Invalid item index", domain.NotificationError)
		return domain.ErrIndexOutOfRange
	}

	newQty := m.lines[index].Quantity + delta
	if newQty > domain.MaxQuantity {
		m.mu.Unlock()
		m.notifier.Toast("Warning", fmt.Sprintf("Maximum quantity (%d) reached", domain.MaxQuantity), domain.NotificationWarning)
		return domain.ErrMaxQuantity
	}
	if newQty < domain.MinQuantity {
		name := m.removeLocked(index)
		count := len(m.lines)
		m.mu.Unlock()
		m.afterRemove(name, count)
		return nil
	}

	m.lines[index].Quantity = newQty
	m.persistLocked()
	count := len(m.lines)
	m.mu.Unlock()

	m.metrics.SetCartLines(count)
	m.bus.Publish(events.EventCartChanged)
	m.notifier.Toast("Success", "Cart quantity updated", domain.NotificationSuccess)
	return nil
}

// RemoveItem удаляет позицию по индексу и называет её в подтверждении.
func (m *Manager) RemoveItem(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.lines) {
		m.mu.Unlock()
		m.notifier.Toast("Error", "Invalid item index", domain.NotificationError)
		return domain.ErrIndexOutOfRange
	}
	name := m.removeLocked(index)
	count := len(m.lines)
	m.mu.Unlock()

	m.afterRemove(name, count)
	return nil
}

// Snapshot возвращает копию текущего списка позиций.
func (m *Manager) Snapshot() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]domain.CartLine, len(m.lines))
	copy(snapshot, m.lines)
	return snapshot
}

// Total возвращает сумму цена*количество по всем позициям.
func (m *Manager) Total() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total float64
	for _, line := range m.lines {
		total += line.LineTotal()
	}
	return total
}

// ItemCount возвращает суммарное количество единиц для бейджа корзины.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int
	for _, line := range m.lines {
		count += line.Quantity
	}
	return count
}

// Clear опустошает корзину и сохраняет пустое состояние.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.lines = nil
	m.persistLocked()
	m.mu.Unlock()

	m.metrics.SetCartLines(0)
	m.bus.Publish(events.EventCartChanged)
}

// ShowPanel показывает панель корзины.
func (m *Manager) ShowPanel() {
	m.panel.ShowCart()
}

// HidePanel скрывает панель корзины.
func (m *Manager) HidePanel() {
	m.panel.HideCart()
}

// indexOf ищет позицию по имени; имя уникально внутри корзины.
func (m *Manager) indexOf(name string) int {
	for i, line := range m.lines {
		if line.Name == name {
			return i
		}
	}
	return -1
}

func (m *Manager) removeLocked(index int) string {
	name := m.lines[index].Name
	m.lines = append(m.lines[:index], m.lines[index+1:]...)
	m.persistLocked()
	return name
}

func (m *Manager) afterRemove(name string, count int) {
	m.metrics.SetCartLines(count)
	m.bus.Publish(events.EventCartChanged)
	m.notifier.Toast("Success", fmt.Sprintf("%s removed from cart", name), domain.NotificationSuccess)
}

// persistLocked сохраняет корзину; сбой записи сообщается пользователю,
// но никогда не поднимается выше.
func (m *Manager) persistLocked() {
	lines := m.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	if err := m.store.Save(domain.KeyCart, lines); err != nil {
		m.logger.WithError(err).Error("failed to save cart state")
		m.notifier.Toast("Error", "Failed to save cart data", domain.NotificationError)
	}
}

func titleFor(typ domain.NotificationType) string {
	switch typ {
	case domain.NotificationWarning:
		return "Warning"
	case domain.NotificationError:
		return "Error"
	}
	return "Success"
}

var _ domain.CartSource = (*Manager)(nil)
