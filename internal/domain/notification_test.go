package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
)

func TestNotificationValidate(t *testing.T) {
	base := domain.Notification{
		ID:      "n-1",
		Title:   "Order Placed Successfully!",
		Message: "Your order has been placed. Token: T1234567",
		Type:    domain.NotificationSuccess,
		Time:    time.Now().UTC(),
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid notification, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(n *domain.Notification)
	}{
		{
			name: "empty title",
			mut: func(n *domain.Notification) {
				n.Title = ""
			},
		},
		{
			name: "empty message",
			mut: func(n *domain.Notification) {
				n.Message = ""
			},
		},
		{
			name: "unknown type",
			mut: func(n *domain.Notification) {
				n.Type = "debug"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := base
			tc.mut(&n)
			if err := n.Validate(); !errors.Is(err, domain.ErrInvalidNotification) {
				t.Fatalf("expected ErrInvalidNotification, got %v", err)
			}
		})
	}
}

func TestValidNotificationType(t *testing.T) {
	for _, typ := range []domain.NotificationType{
		domain.NotificationSuccess,
		domain.NotificationError,
		domain.NotificationWarning,
		domain.NotificationInfo,
	} {
		if !domain.ValidNotificationType(typ) {
			t.Errorf("type %s should be valid", typ)
		}
	}
	if domain.ValidNotificationType("verbose") {
		t.Error("unknown type should be invalid")
	}
}
