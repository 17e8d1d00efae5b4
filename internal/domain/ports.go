package domain

// Ключи долговременного хранилища. Каждый ключ — отдельный JSON-список;
// раскладка является внешним контрактом и не зависит от реализации хранилища.
const (
	KeyCart          = "canteenCart"
	KeyOrders        = "canteenOrders"
	KeyNotifications = "canteenNotifications"
)

// StateStore — адаптер долговременного key/value-хранилища.
// Save сериализует значение в JSON под ключом; Load читает и десериализует.
// Load возвращает ErrStateNotFound при отсутствии ключа и ErrCorruptState,
// если данные имеют неожиданную форму.
type StateStore interface {
	Save(key string, value any) error
	Load(key string, into any) error
}

// Notifier — канал, через который менеджеры сообщают пользователю об итогах
// операций: Notify создаёт хранимое уведомление (и тост), Toast показывает
// только транзиентное сообщение.
type Notifier interface {
	Notify(title, message string, typ NotificationType)
	Toast(title, message string, typ NotificationType)
}

// CartSource — срез операций корзины, нужный менеджеру заказов при чекауте.
// Snapshot возвращает копию позиций, Clear опустошает корзину,
// HidePanel скрывает панель корзины после успешного оформления.
type CartSource interface {
	Snapshot() []CartLine
	Clear()
	HidePanel()
}

// CartPanel управляет видимостью панели корзины.
type CartPanel interface {
	ShowCart()
	HideCart()
}

// NotificationPanel управляет видимостью панели уведомлений.
type NotificationPanel interface {
	CloseNotifications()
}
