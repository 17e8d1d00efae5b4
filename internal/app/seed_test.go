package app

import "testing"

func TestDefaultMenuReferencesKnownCanteens(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range DefaultCanteens() {
		names[c.Name] = true
	}

	for _, item := range DefaultMenu() {
		if !names[item.Canteen] {
			t.Errorf("menu item %q references unknown canteen %q", item.Name, item.Canteen)
		}
		if item.Price <= 0 {
			t.Errorf("menu item %q has non-positive price", item.Name)
		}
		if item.Number == "" {
			t.Errorf("menu item %q has empty item number", item.Name)
		}
	}
}
