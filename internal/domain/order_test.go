package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
)

// helper для создания валидного заказа.
func makeOrder() domain.Order {
	return domain.Order{
		ID:          "order-1",
		TokenNumber: "T1234567",
		Item:        "Masala Dosa",
		Price:       50,
		Quantity:    2,
		Status:      domain.OrderStatusPending,
		Timestamp:   time.Now().UTC(),
	}
}

func TestOrderValidate_Ok(t *testing.T) {
	order := makeOrder()
	if err := order.Validate(); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}
}

func TestOrderValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "empty item",
			mut: func(o *domain.Order) {
				o.Item = ""
			},
		},
		{
			name: "zero price",
			mut: func(o *domain.Order) {
				o.Price = 0
			},
		},
		{
			name: "negative price",
			mut: func(o *domain.Order) {
				o.Price = -10
			},
		},
		{
			name: "zero quantity",
			mut: func(o *domain.Order) {
				o.Quantity = 0
			},
		},
		{
			name: "quantity above max",
			mut: func(o *domain.Order) {
				o.Quantity = 100
			},
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "shipped"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)
			if err := order.Validate(); err == nil {
				t.Fatalf("expected validation error for case %s", tc.name)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusPreparing, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusReady, false},
		{domain.OrderStatusPreparing, domain.OrderStatusReady, true},
		{domain.OrderStatusPreparing, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPreparing, domain.OrderStatusCompleted, false},
		{domain.OrderStatusReady, domain.OrderStatusCompleted, true},
		{domain.OrderStatusReady, domain.OrderStatusCancelled, false},
		// Терминальные статусы не покидаются.
		{domain.OrderStatusCompleted, domain.OrderStatusPending, false},
		{domain.OrderStatusCancelled, domain.OrderStatusPreparing, false},
	}

	for _, tc := range cases {
		if got := domain.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
		domain.OrderStatusCompleted,
		domain.OrderStatusCancelled,
	} {
		if !domain.ValidStatus(s) {
			t.Errorf("status %s should be valid", s)
		}
	}
	if domain.ValidStatus("delivered") {
		t.Error("unknown status should be invalid")
	}
}
