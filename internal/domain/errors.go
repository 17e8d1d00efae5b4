package domain

import "errors"

var (
	// Ошибка некорректного ввода (пустое имя, неположительная цена и т.п.).
	ErrInvalidInput = errors.New("invalid input")
	// Ошибка обращения к позиции корзины по несуществующему индексу.
	ErrIndexOutOfRange = errors.New("cart index out of range")
	// Ошибка превышения максимального количества для позиции корзины.
	ErrMaxQuantity = errors.New("maximum quantity reached")
	// Ошибка оформления заказа из пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// Ошибка валидации полей заказа.
	ErrInvalidOrder = errors.New("invalid order")
	// Ошибка нераспознанного статуса заказа.
	ErrInvalidStatus = errors.New("invalid order status")
	// Ошибка недопустимого перехода между статусами заказа.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrOrderNotFound возвращается, если по токену не найдено ни одного заказа.
	ErrOrderNotFound = errors.New("order not found")
	// Ошибка валидации полей уведомления.
	ErrInvalidNotification = errors.New("invalid notification")
	// ErrStateNotFound возвращается, если по ключу в хранилище ничего нет.
	ErrStateNotFound = errors.New("state not found")
	// ErrCorruptState сигнализирует, что сохранённые данные имеют неожиданную форму.
	ErrCorruptState = errors.New("persisted state is corrupt")
	// ErrStoreUnavailable — хранилище недоступно для записи (квота, права).
	ErrStoreUnavailable = errors.New("durable store unavailable")
)

// IsCorruptState проверяет, является ли ошибка повреждением сохранённого состояния.
func IsCorruptState(err error) bool {
	return errors.Is(err, ErrCorruptState)
}

// IsNotFound проверяет ошибки отсутствия данных (заказ или ключ хранилища).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrStateNotFound)
}
