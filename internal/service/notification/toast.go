package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
	"github.com/vladislavdragonenkov/canteen/internal/metrics"
)

// Toast — одно транзиентное сообщение. Fading означает, что тост уже
// скрывается и будет удалён после завершения анимации.
type Toast struct {
	ID      string                  `json:"id"`
	Title   string                  `json:"title,omitempty"`
	Message string                  `json:"message"`
	Type    domain.NotificationType `json:"type"`
	ShownAt time.Time               `json:"shownAt"`
	Fading  bool                    `json:"fading"`
}

type toastEntry struct {
	toast     Toast
	autoTimer *time.Timer
	fadeTimer *time.Timer
}

// Presenter показывает тосты и управляет их жизненным циклом:
// автоскрытие по таймеру, досрочное скрытие пользователем, удаление
// после анимации. Каждому тосту принадлежит отменяемый таймер, поэтому
// досрочное скрытие не оставляет висящей отложенной работы.
type Presenter struct {
	mu     sync.Mutex
	active map[string]*toastEntry
	closed bool

	duration time.Duration
	fade     time.Duration
	metrics  *metrics.CanteenMetrics
	logger   *log.Entry
}

// NewPresenter создаёт презентер с заданными длительностями показа и анимации.
func NewPresenter(duration, fade time.Duration, m *metrics.CanteenMetrics, logger *log.Entry) *Presenter {
	if logger == nil {
		logger = log.New().WithField("component", "toasts")
	}
	if duration <= 0 {
		duration = domain.ToastDuration
	}
	if fade <= 0 {
		fade = domain.FadeDuration
	}
	return &Presenter{
		active:   make(map[string]*toastEntry),
		duration: duration,
		fade:     fade,
		metrics:  m,
		logger:   logger,
	}
}

// Show показывает тост и планирует его автоскрытие.
func (p *Presenter) Show(title, message string, typ domain.NotificationType) string {
	toast := Toast{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Type:    typ,
		ShownAt: time.Now().UTC(),
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ""
	}
	entry := &toastEntry{toast: toast}
	entry.autoTimer = time.AfterFunc(p.duration, func() {
		p.Dismiss(toast.ID)
	})
	p.active[toast.ID] = entry
	count := len(p.active)
	p.mu.Unlock()

	p.metrics.RecordToastShown()
	p.metrics.SetActiveToasts(count)
	p.logger.WithFields(log.Fields{"type": typ, "title": title}).Debug(message)
	return toast.ID
}

// ShowBasic — упрощённый тост для случаев, когда полноценное уведомление
// не прошло валидацию: сообщение всё равно доходит до пользователя.
func (p *Presenter) ShowBasic(message string) string {
	return p.Show("", message, domain.NotificationError)
}

// Dismiss скрывает тост: отменяет автоскрытие и запускает анимацию,
// после которой тост удаляется. Повторный вызов и уже удалённый тост — no-op.
func (p *Presenter) Dismiss(id string) {
	p.mu.Lock()
	entry, ok := p.active[id]
	if !ok || entry.toast.Fading {
		p.mu.Unlock()
		return
	}
	entry.autoTimer.Stop()
	entry.toast.Fading = true
	entry.fadeTimer = time.AfterFunc(p.fade, func() {
		p.remove(id)
	})
	p.mu.Unlock()
}

// Active возвращает показанные тосты в порядке появления.
func (p *Presenter) Active() []Toast {
	p.mu.Lock()
	defer p.mu.Unlock()

	toasts := make([]Toast, 0, len(p.active))
	for _, entry := range p.active {
		toasts = append(toasts, entry.toast)
	}
	sort.Slice(toasts, func(i, j int) bool {
		if !toasts[i].ShownAt.Equal(toasts[j].ShownAt) {
			return toasts[i].ShownAt.Before(toasts[j].ShownAt)
		}
		return toasts[i].ID < toasts[j].ID
	})
	return toasts
}

// Close останавливает все таймеры; используется при остановке сервиса.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for id, entry := range p.active {
		entry.autoTimer.Stop()
		if entry.fadeTimer != nil {
			entry.fadeTimer.Stop()
		}
		delete(p.active, id)
	}
	p.metrics.SetActiveToasts(0)
}

func (p *Presenter) remove(id string) {
	p.mu.Lock()
	delete(p.active, id)
	count := len(p.active)
	p.mu.Unlock()

	p.metrics.SetActiveToasts(count)
}
