package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/canteen/internal/domain"
)

func TestCartLineValidate(t *testing.T) {
	cases := []struct {
		name    string
		line    domain.CartLine
		wantErr bool
	}{
		{
			name: "valid line",
			line: domain.CartLine{Name: "Idli", Price: 30, Quantity: 1},
		},
		{
			name: "quantity at max",
			line: domain.CartLine{Name: "Idli", Price: 30, Quantity: 99},
		},
		{
			name:    "empty name",
			line:    domain.CartLine{Name: "", Price: 30, Quantity: 1},
			wantErr: true,
		},
		{
			name:    "zero price",
			line:    domain.CartLine{Name: "Idli", Price: 0, Quantity: 1},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			line:    domain.CartLine{Name: "Idli", Price: 30, Quantity: 0},
			wantErr: true,
		},
		{
			name:    "quantity above max",
			line:    domain.CartLine{Name: "Idli", Price: 30, Quantity: 100},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.line.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCartLineLineTotal(t *testing.T) {
	line := domain.CartLine{Name: "Vada", Price: 25.5, Quantity: 4}
	if got := line.LineTotal(); got != 102 {
		t.Fatalf("LineTotal() = %v, want 102", got)
	}
}
