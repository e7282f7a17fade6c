// Package analytics aggregates the shop order log for the admin dashboard.
package analytics

import (
	"sort"

	"fusion6/models"
)

const DefaultTopDishes = 5

type DaySales struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DishSales struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type Insights struct {
	TotalRevenue float64                    `json:"totalRevenue"`
	TotalOrders  int                        `json:"totalOrders"`
	TotalUsers   int                        `json:"totalUsers"`
	AverageOrder float64                    `json:"averageOrder"`
	ByStatus     map[models.OrderStatus]int `json:"byStatus"`
	SalesByDay   []DaySales                 `json:"salesByDay"`
	TopDishes    []DishSales                `json:"topDishes"`
}

// Summarize computes the dashboard figures. Days are UTC calendar days in
// ascending order; top dishes are ranked by quantity, then revenue, then name.
func Summarize(orders []models.Order, users, top int) Insights {
	in := Insights{
		TotalOrders: len(orders),
		TotalUsers:  users,
		ByStatus:    map[models.OrderStatus]int{},
		SalesByDay:  []DaySales{},
		TopDishes:   []DishSales{},
	}

	days := map[string]*DaySales{}
	dishes := map[string]*DishSales{}

	for _, o := range orders {
		in.TotalRevenue += o.Total
		in.ByStatus[o.Status]++

		date := o.Timestamp.UTC().Format("2006-01-02")
		day, ok := days[date]
		if !ok {
			day = &DaySales{Date: date}
			days[date] = day
		}
		day.Orders++
		day.Revenue += o.Total

		for _, item := range o.Items {
			dish, ok := dishes[item.ID]
			if !ok {
				dish = &DishSales{ID: item.ID, Name: item.Name}
				dishes[item.ID] = dish
			}
			dish.Quantity += item.Quantity
			dish.Revenue += item.Total()
		}
	}

	in.TotalRevenue = models.RoundCents(in.TotalRevenue)
	if in.TotalOrders > 0 {
		in.AverageOrder = models.RoundCents(in.TotalRevenue / float64(in.TotalOrders))
	}

	for _, day := range days {
		day.Revenue = models.RoundCents(day.Revenue)
		in.SalesByDay = append(in.SalesByDay, *day)
	}
	sort.Slice(in.SalesByDay, func(i, j int) bool {
		return in.SalesByDay[i].Date < in.SalesByDay[j].Date
	})

	for _, dish := range dishes {
		dish.Revenue = models.RoundCents(dish.Revenue)
		in.TopDishes = append(in.TopDishes, *dish)
	}
	sort.Slice(in.TopDishes, func(i, j int) bool {
		a, b := in.TopDishes[i], in.TopDishes[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	if top > 0 && len(in.TopDishes) > top {
		in.TopDishes = in.TopDishes[:top]
	}

	return in
}
