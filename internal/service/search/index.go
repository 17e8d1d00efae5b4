package search

import (
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/events"
)

// EntryType — дискриминант записи индекса; задаёт и порядок групп в выдаче.
type EntryType string

const (
	EntryCanteen      EntryType = "canteen"
	EntryMenuItem     EntryType = "menu-item"
	EntryNotification EntryType = "notification"
	EntryOrder        EntryType = "order"
)

// groupOrder — фиксированный порядок групп в результатах поиска.
var groupOrder = []EntryType{EntryCanteen, EntryMenuItem, EntryNotification, EntryOrder}

// Entry — одна запись плоского поискового индекса.
type Entry struct {
	Type        EntryType          `json:"type"`
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	ItemNumber  string             `json:"itemNumber,omitempty"`
	Price       float64            `json:"price,omitempty"`
	Canteen     string             `json:"canteen,omitempty"`
	Status      domain.OrderStatus `json:"status,omitempty"`
	Time        time.Time          `json:"time,omitzero"`
	Unread      bool               `json:"unread,omitempty"`
}

// searchText — составная строка, по которой выполняется подстрочный поиск.
func (e Entry) searchText() string {
	parts := []string{e.Name, e.Description, e.ItemNumber, e.Canteen, string(e.Status)}
	if e.Price > 0 {
		parts = append(parts, fmt.Sprintf("%.2f", e.Price))
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Group — записи одного типа в выдаче.
type Group struct {
	Type    EntryType `json:"type"`
	Entries []Entry   `json:"entries"`
}

// Results — ответ на поисковый запрос. Пустой запрос оставляет панель
// результатов неактивной; отсутствие совпадений при активной панели
// обозначается Empty.
type Results struct {
	Active bool    `json:"active"`
	Empty  bool    `json:"empty"`
	Groups []Group `json:"groups,omitempty"`
}

// NotificationSource отдаёт снимок уведомлений для индексации.
type NotificationSource interface {
	Snapshot() []domain.Notification
}

// OrderSource отдаёт снимок заказов для индексации.
type OrderSource interface {
	Snapshot() []domain.Order
}

// Index — плоский поисковый индекс по столовым, меню, уведомлениям
// и заказам. Перестраивается при каждом изменении уведомлений или заказов;
// корзина в индекс не входит.
type Index struct {
	mu      sync.RWMutex
	entries []Entry

	canteens      []domain.Canteen
	menu          []domain.MenuItem
	notifications NotificationSource
	orders        OrderSource
	logger        *log.Entry
}

// NewIndex конструирует индекс и выполняет первоначальную сборку.
func NewIndex(
	canteens []domain.Canteen,
	menu []domain.MenuItem,
	notifications NotificationSource,
	orders OrderSource,
	logger *log.Entry,
) *Index {
	if logger == nil {
		logger = log.New().WithField("component", "search")
	}
	ix := &Index{
		canteens:      canteens,
		menu:          menu,
		notifications: notifications,
		orders:        orders,
		logger:        logger,
	}
	ix.Rebuild()
	return ix
}

// Bind подписывает индекс на события изменения заказов и уведомлений.
func (ix *Index) Bind(bus *events.Bus) {
	rebuild := func(events.Event) { ix.Rebuild() }
	bus.Subscribe(events.EventOrdersChanged, rebuild)
	bus.Subscribe(events.EventNotificationsChanged, rebuild)
}

// Rebuild собирает плоский список записей из снимков источников.
func (ix *Index) Rebuild() {
	entries := make([]Entry, 0, len(ix.canteens)+len(ix.menu))

	for _, c := range ix.canteens {
		entries = append(entries, Entry{
			Type:        EntryCanteen,
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}
	for _, item := range ix.menu {
		entries = append(entries, Entry{
			Type:        EntryMenuItem,
			Name:        item.Name,
			Description: item.Description,
			ItemNumber:  item.Number,
			Price:       item.Price,
			Canteen:     item.Canteen,
		})
	}
	if ix.notifications != nil {
		for _, n := range ix.notifications.Snapshot() {
			entries = append(entries, Entry{
				Type:        EntryNotification,
				ID:          n.ID,
				Name:        n.Title,
				Description: n.Message,
				Time:        n.Time,
				Unread:      !n.Read,
			})
		}
	}
	if ix.orders != nil {
		for _, o := range ix.orders.Snapshot() {
			entries = append(entries, Entry{
				Type:        EntryOrder,
				ID:          o.ID,
				Name:        fmt.Sprintf("Order #%s", o.TokenNumber),
				Description: fmt.Sprintf("%s - Quantity: %d", o.Item, o.Quantity),
				Price:       o.Price,
				Status:      o.Status,
				Time:        o.Timestamp,
			})
		}
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()

	ix.logger.WithField("entries", len(entries)).Debug("search index rebuilt")
}

// Query выполняет нечувствительный к регистру подстрочный поиск.
// Результаты группируются по типу в порядке: столовые, меню,
// уведомления, заказы.
func (ix *Index) Query(text string) Results {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return Results{}
	}

	ix.mu.RLock()
	matched := make([]Entry, 0)
	for _, e := range ix.entries {
		if strings.Contains(e.searchText(), query) {
			matched = append(matched, e)
		}
	}
	ix.mu.RUnlock()

	if len(matched) == 0 {
		return Results{Active: true, Empty: true}
	}

	byType := make(map[EntryType][]Entry)
	for _, e := range matched {
		byType[e.Type] = append(byType[e.Type], e)
	}

	groups := make([]Group, 0, len(byType))
	for _, typ := range groupOrder {
		if entries := byType[typ]; len(entries) > 0 {
			groups = append(groups, Group{Type: typ, Entries: entries})
		}
	}
	return Results{Active: true, Groups: groups}
}

// HighlightRanges возвращает непересекающиеся диапазоны [start, end)
// вхождений запроса в текст без учёта регистра — для подсветки совпадений.
func HighlightRanges(text, query string) [][2]int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var ranges [][2]int
	for start := 0; ; {
		idx := strings.Index(lower[start:], query)
		if idx < 0 {
			break
		}
		from := start + idx
		to := from + len(query)
		ranges = append(ranges, [2]int{from, to})
		start = to
	}
	return ranges
}
