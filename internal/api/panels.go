package api

import "sync"

// PanelState отслеживает видимость панелей клиентского интерфейса.
// Панели взаимоисключающие: открытие одной закрывает другую,
// как и в разметке страницы.
type PanelState struct {
	mu                sync.Mutex
	cartOpen          bool
	notificationsOpen bool
}

// NewPanelState возвращает состояние со скрытыми панелями.
func NewPanelState() *PanelState {
	return &PanelState{}
}

// ShowCart показывает панель корзины, закрывая панель уведомлений.
func (p *PanelState) ShowCart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cartOpen = true
	p.notificationsOpen = false
}

// HideCart скрывает панель корзины.
func (p *PanelState) HideCart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cartOpen = false
}

// OpenNotifications показывает панель уведомлений, закрывая корзину.
func (p *PanelState) OpenNotifications() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notificationsOpen = true
	p.cartOpen = false
}

// CloseNotifications скрывает панель уведомлений.
func (p *PanelState) CloseNotifications() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notificationsOpen = false
}

// State возвращает текущую видимость панелей (корзина, уведомления).
func (p *PanelState) State() (cartOpen, notificationsOpen bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cartOpen, p.notificationsOpen
}
