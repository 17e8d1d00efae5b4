package events

import (
	"sync"
	"time"
)

// Type определяет тип события об изменении состояния.
type Type string

const (
	// EventOrdersChanged публикуется после каждой мутации списка заказов.
	EventOrdersChanged Type = "orders.changed"
	// EventNotificationsChanged публикуется после каждой мутации списка уведомлений.
	EventNotificationsChanged Type = "notifications.changed"
	// EventCartChanged публикуется после каждой мутации корзины.
	EventCartChanged Type = "cart.changed"
)

// Event — одно событие изменения.
type Event struct {
	Type     Type
	Occurred time.Time
}

// Handler — обработчик события; вызывается синхронно внутри Publish.
type Handler func(Event)

// Bus — внутрипроцессная шина изменений. Менеджеры публикуют события после
// сохранения состояния; подписчики (поисковый индекс) получают их синхронно,
// в том же вызове, что и сама мутация.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]Handler
}

// NewBus создаёт пустую шину.
func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]Handler)}
}

// Subscribe регистрирует обработчик для типа события.
func (b *Bus) Subscribe(t Type, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[t] = append(b.subs[t], h)
}

// Publish доставляет событие всем подписчикам типа в порядке подписки.
func (b *Bus) Publish(t Type) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[t]))
	copy(handlers, b.subs[t])
	b.mu.RUnlock()

	event := Event{Type: t, Occurred: time.Now().UTC()}
	for _, h := range handlers {
		h(event)
	}
}
