package domain

const (
	// MaxQuantity — верхняя граница количества для одной позиции корзины.
	MaxQuantity = 99
	// MinQuantity — нижняя граница; падение ниже означает удаление позиции.
	MinQuantity = 1
)

// CartLine представляет одну позицию корзины.
// Внутри корзины имя позиции уникально: повторное добавление
// увеличивает количество, а не создаёт новую строку.
type CartLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Validate проверяет базовые инварианты позиции корзины.
func (l CartLine) Validate() error {
	if l.Name == "" {
		return ErrInvalidInput
	}
	if l.Price <= 0 {
		return ErrInvalidInput
	}
	if l.Quantity < MinQuantity || l.Quantity > MaxQuantity {
		return ErrInvalidInput
	}
	return nil
}

// LineTotal возвращает стоимость позиции: цена, умноженная на количество.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}
