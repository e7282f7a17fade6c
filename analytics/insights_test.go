package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion6/models"
)

func line(id, name string, price float64, qty int) models.LineItem {
	return models.LineItem{ID: id, Name: name, Price: price, Quantity: qty}
}

func TestSummarize(t *testing.T) {
	day1 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 4, 2, 19, 30, 0, 0, time.UTC)

	orders := []models.Order{
		{ID: "a", Timestamp: day2, Total: 29.98, Status: models.StatusDelivered,
			Items: []models.LineItem{line("1", "Fusion Burger Deluxe", 14.99, 2)}},
		{ID: "b", Timestamp: day1, Total: 12.99, Status: models.StatusPlaced,
			Items: []models.LineItem{line("2", "Asian Fusion Bowl", 12.99, 1)}},
		{ID: "c", Timestamp: day2.Add(time.Hour), Total: 20.97, Status: models.StatusPlaced,
			Items: []models.LineItem{line("12", "Fresh Lemonade", 2.99, 3), line("1", "Fusion Burger Deluxe", 14.99, 1)}},
	}

	in := Summarize(orders, 7, 2)

	assert.Equal(t, 3, in.TotalOrders)
	assert.Equal(t, 7, in.TotalUsers)
	assert.Equal(t, 63.94, in.TotalRevenue)
	assert.Equal(t, 21.31, in.AverageOrder)
	assert.Equal(t, 2, in.ByStatus[models.StatusPlaced])
	assert.Equal(t, 1, in.ByStatus[models.StatusDelivered])

	assert.Equal(t, []DaySales{
		{Date: "2025-04-01", Orders: 1, Revenue: 12.99},
		{Date: "2025-04-02", Orders: 2, Revenue: 50.95},
	}, in.SalesByDay)

	require.Len(t, in.TopDishes, 2)
	assert.Equal(t, DishSales{ID: "1", Name: "Fusion Burger Deluxe", Quantity: 3, Revenue: 44.97}, in.TopDishes[0])
	assert.Equal(t, DishSales{ID: "12", Name: "Fresh Lemonade", Quantity: 3, Revenue: 8.97}, in.TopDishes[1])
}

func TestSummarize_Empty(t *testing.T) {
	in := Summarize(nil, 0, DefaultTopDishes)

	assert.Zero(t, in.TotalRevenue)
	assert.Zero(t, in.AverageOrder)

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"salesByDay":[]`)
	assert.Contains(t, string(data), `"topDishes":[]`)
}
