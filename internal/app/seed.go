package app

import "github.com/vladislavdragonenkov/canteen/internal/domain"

// DefaultCanteens возвращает список столовых, доступных для выбора.
func DefaultCanteens() []domain.Canteen {
	return []domain.Canteen{
		{ID: "common", Name: "Common Canteen", Description: "Main dining hall with full meals and snacks"},
		{ID: "parking", Name: "Parking Canteen", Description: "Quick bites and beverages near the parking area"},
	}
}

// DefaultMenu возвращает меню обеих столовых.
func DefaultMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{Number: "1", Name: "Masala Dosa", Description: "Crispy dosa with spiced potato filling", Price: 50, Canteen: "Common Canteen"},
		{Number: "2", Name: "Idli Sambar", Description: "Steamed rice cakes with sambar and chutney", Price: 30, Canteen: "Common Canteen"},
		{Number: "3", Name: "Veg Thali", Description: "Rice, dal, two curries, chapati and curd", Price: 80, Canteen: "Common Canteen"},
		{Number: "4", Name: "Chole Bhature", Description: "Spiced chickpeas with fried bread", Price: 60, Canteen: "Common Canteen"},
		{Number: "5", Name: "Veg Fried Rice", Description: "Wok-fried rice with seasonal vegetables", Price: 55, Canteen: "Common Canteen"},
		{Number: "1", Name: "Vada Pav", Description: "Potato fritter in a bun with chutney", Price: 20, Canteen: "Parking Canteen"},
		{Number: "2", Name: "Samosa", Description: "Fried pastry with savoury potato filling", Price: 15, Canteen: "Parking Canteen"},
		{Number: "3", Name: "Veg Sandwich", Description: "Grilled sandwich with vegetables and cheese", Price: 40, Canteen: "Parking Canteen"},
		{Number: "4", Name: "Filter Coffee", Description: "South Indian filter coffee", Price: 15, Canteen: "Parking Canteen"},
		{Number: "5", Name: "Masala Chai", Description: "Spiced milk tea", Price: 10, Canteen: "Parking Canteen"},
	}
}
