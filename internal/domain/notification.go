package domain

import "time"

// NotificationType определяет визуальную категорию уведомления.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

const (
	// MaxNotifications — максимум хранимых уведомлений; старейшие вытесняются первыми.
	MaxNotifications = 100
	// ToastDuration — время показа тоста до автоматического скрытия.
	ToastDuration = 5 * time.Second
	// FadeDuration — длительность анимации скрытия перед удалением тоста.
	FadeDuration = 300 * time.Millisecond
)

// ValidNotificationType сообщает, входит ли тип в четыре распознаваемых значения.
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationSuccess, NotificationError, NotificationWarning, NotificationInfo:
		return true
	}
	return false
}

// Notification представляет одно уведомление в панели.
// Список хранится от новых к старым; Read управляется счётчиком непрочитанных.
type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Time    time.Time        `json:"time"`
	Read    bool             `json:"read"`
}

// Validate проверяет инварианты полей уведомления.
func (n Notification) Validate() error {
	if n.Title == "" {
		return ErrInvalidNotification
	}
	if n.Message == "" {
		return ErrInvalidNotification
	}
	if !ValidNotificationType(n.Type) {
		return ErrInvalidNotification
	}
	return nil
}
