package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в столовой.
type OrderStatus string

const (
	// OrderStatusPending — заказ принят, но кухня ещё не приступила.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPreparing — заказ готовится.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusReady — заказ готов к выдаче по токену.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusCompleted — заказ выдан клиенту.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled — заказ отменён до выдачи.
	OrderStatusCancelled OrderStatus = "cancelled"
)

const (
	// MaxOrders — максимум хранимых заказов; старейшие вытесняются первыми.
	MaxOrders = 1000
	// TokenPrefix — префикс человекочитаемого номера токена.
	TokenPrefix = "T"
)

// ValidStatus сообщает, входит ли статус в пять распознаваемых значений.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition проверяет допустимость перехода между статусами.
// Граф: pending -> {preparing, cancelled}, preparing -> {ready, cancelled},
// ready -> completed; completed и cancelled терминальны.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusPreparing || to == OrderStatusCancelled
	case OrderStatusPreparing:
		return to == OrderStatusReady || to == OrderStatusCancelled
	case OrderStatusReady:
		return to == OrderStatusCompleted
	}
	return false
}

// Order представляет одну позицию оформленного заказа.
// Несколько заказов делят один TokenNumber, если были оформлены
// одним чекаутом корзины.
type Order struct {
	ID          string      `json:"id"`
	TokenNumber string      `json:"tokenNumber"`
	Item        string      `json:"item"`
	Price       float64     `json:"price"`
	Quantity    int         `json:"quantity"`
	Status      OrderStatus `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Validate проверяет инварианты полей заказа.
func (o Order) Validate() error {
	if o.Item == "" {
		return ErrInvalidOrder
	}
	if o.Price <= 0 {
		return ErrInvalidOrder
	}
	if o.Quantity < MinQuantity || o.Quantity > MaxQuantity {
		return ErrInvalidOrder
	}
	if !ValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}
