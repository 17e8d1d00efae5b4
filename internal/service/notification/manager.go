package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/events"
	"github.com/vladislavdragonenkov/canteen/internal/metrics"
)

// Manager владеет списком уведомлений и счётчиком непрочитанных.
// Список хранится от новых к старым; при переполнении вытесняется
// старейшее уведомление. Счётчик всегда равен числу непрочитанных.
type Manager struct {
	mu     sync.Mutex
	items  []domain.Notification
	unread int

	store   domain.StateStore
	toasts  *Presenter
	panel   domain.NotificationPanel
	bus     *events.Bus
	metrics *metrics.CanteenMetrics
	logger  *log.Entry
}

// NewManager конструирует менеджер уведомлений с явными зависимостями.
func NewManager(
	store domain.StateStore,
	toasts *Presenter,
	panel domain.NotificationPanel,
	bus *events.Bus,
	m *metrics.CanteenMetrics,
	logger *log.Entry,
) *Manager {
	if logger == nil {
		logger = log.New().WithField("component", "notifications")
	}
	return &Manager{
		store:   store,
		toasts:  toasts,
		panel:   panel,
		bus:     bus,
		metrics: m,
		logger:  logger,
	}
}

// Load восстанавливает уведомления из хранилища и пересчитывает
// счётчик непрочитанных по выжившим записям.
func (m *Manager) Load() {
	var items []domain.Notification
	err := m.store.Load(domain.KeyNotifications, &items)
	switch {
	case err == nil:
		unread := 0
		for _, n := range items {
			if !n.Read {
				unread++
			}
		}
		m.mu.Lock()
		m.items = items
		m.unread = unread
		m.mu.Unlock()
		m.metrics.SetUnreadNotifications(unread)
	case domain.IsNotFound(err):
		// Первый запуск: уведомлений ещё нет.
	default:
		m.logger.WithError(err).Error("failed to load notifications state")
		m.metrics.RecordCorruptRecovery()
		m.toasts.ShowBasic("Failed to load notifications")
	}
}

// Add создаёт уведомление, вытесняя старейшее при переполнении.
// Невалидный ввод не попадает в список: пользователю показывается
// базовый транзиентный тост вместо тихой потери сообщения.
func (m *Manager) Add(title, message string, typ domain.NotificationType) error {
	n := domain.Notification{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Type:    typ,
		Time:    time.Now().UTC(),
		Read:    false,
	}
	if err := n.Validate(); err != nil {
		m.logger.WithError(err).WithField("title", title).Warn("rejected invalid notification")
		m.toasts.ShowBasic(message)
		return err
	}

	m.mu.Lock()
	if len(m.items) >= domain.MaxNotifications {
		// Список хранится от новых к старым: старейшее в хвосте.
		// Непрочитанный вытесненный уменьшает счётчик: он всегда
		// равен числу непрочитанных среди выживших.
		evicted := m.items[len(m.items)-1]
		m.items = m.items[:len(m.items)-1]
		if !evicted.Read && m.unread > 0 {
			m.unread--
		}
		m.metrics.RecordEviction("notifications")
	}
	m.items = append([]domain.Notification{n}, m.items...)
	m.unread++
	unread := m.unread
	m.persistLocked()
	m.mu.Unlock()

	m.metrics.RecordNotificationAdded()
	m.metrics.SetUnreadNotifications(unread)
	m.bus.Publish(events.EventNotificationsChanged)
	m.toasts.Show(title, message, typ)
	return nil
}

// MarkRead помечает уведомление прочитанным. Повторный вызов
// и неизвестный идентификатор — no-op.
func (m *Manager) MarkRead(id string) {
	m.mu.Lock()
	idx := m.indexOfLocked(id)
	if idx < 0 || m.items[idx].Read {
		m.mu.Unlock()
		return
	}
	m.items[idx].Read = true
	if m.unread > 0 {
		m.unread--
	}
	unread := m.unread
	m.persistLocked()
	m.mu.Unlock()

	m.metrics.SetUnreadNotifications(unread)
	m.bus.Publish(events.EventNotificationsChanged)
}

// Delete удаляет уведомление и подтверждает это тостом.
// Неизвестный идентификатор — no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	idx := m.indexOfLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	if !m.items[idx].Read && m.unread > 0 {
		m.unread--
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	unread := m.unread
	m.persistLocked()
	m.mu.Unlock()

	m.metrics.SetUnreadNotifications(unread)
	m.bus.Publish(events.EventNotificationsChanged)
	m.toasts.Show("Notification Deleted", "The notification has been removed", domain.NotificationInfo)
}

// ClearAll опустошает список. Пустой список не мутируется,
// пользователь получает информационный тост.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	if len(m.items) == 0 {
		m.mu.Unlock()
		m.toasts.Show("No Notifications", "There are no notifications to clear", domain.NotificationInfo)
		return
	}
	m.items = nil
	m.unread = 0
	m.persistLocked()
	m.mu.Unlock()

	m.metrics.SetUnreadNotifications(0)
	m.bus.Publish(events.EventNotificationsChanged)
	m.toasts.Show("Notifications Cleared", "All notifications have been cleared", domain.NotificationSuccess)
	m.panel.CloseNotifications()
}

// ShowDetails возвращает уведомление для детального просмотра,
// попутно помечая его прочитанным.
func (m *Manager) ShowDetails(id string) (domain.Notification, bool) {
	m.MarkRead(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOfLocked(id)
	if idx < 0 {
		return domain.Notification{}, false
	}
	return m.items[idx], true
}

// Unread возвращает текущее значение счётчика непрочитанных.
func (m *Manager) Unread() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unread
}

// Snapshot возвращает копию списка уведомлений (от новых к старым).
func (m *Manager) Snapshot() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]domain.Notification, len(m.items))
	copy(snapshot, m.items)
	return snapshot
}

// Toasts даёт доступ к презентеру тостов (для API-слоя).
func (m *Manager) Toasts() *Presenter {
	return m.toasts
}

// Notify реализует domain.Notifier: хранимое уведомление плюс тост.
func (m *Manager) Notify(title, message string, typ domain.NotificationType) {
	// Add сам показывает fallback-тост при невалидном вводе.
	_ = m.Add(title, message, typ)
}

// Toast реализует domain.Notifier: только транзиентное сообщение.
func (m *Manager) Toast(title, message string, typ domain.NotificationType) {
	m.toasts.Show(title, message, typ)
}

func (m *Manager) indexOfLocked(id string) int {
	for i, n := range m.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persistLocked() {
	items := m.items
	if items == nil {
		items = []domain.Notification{}
	}
	if err := m.store.Save(domain.KeyNotifications, items); err != nil {
		m.logger.WithError(err).Error("failed to save notifications state")
		m.toasts.Show("Error", "Failed to save notifications", domain.NotificationError)
	}
}

var _ domain.Notifier = (*Manager)(nil)
