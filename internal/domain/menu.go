package domain

// Canteen описывает точку питания, из меню которой собираются заказы.
type Canteen struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MenuItem — статическая позиция меню одной из столовых.
type MenuItem struct {
	Number      string  `json:"number"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Canteen     string  `json:"canteen"`
}
