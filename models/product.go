package models

// Product is what a cart needs to know about a dish.
type Product struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name" binding:"required"`
	Price    float64 `json:"price" yaml:"price" binding:"gte=0"`
	Image    string  `json:"image" yaml:"image"`
	Category string  `json:"category,omitempty" yaml:"category"`
}

// MenuItem is a dish as listed on the menu.
type MenuItem struct {
	Product      `yaml:",inline"`
	Description  string  `json:"description" yaml:"description"`
	Rating       float64 `json:"rating" yaml:"rating"`
	Reviews      int     `json:"reviews" yaml:"reviews"`
	IsVegetarian bool    `json:"isVegetarian,omitempty" yaml:"isVegetarian"`
	IsSpicy      bool    `json:"isSpicy,omitempty" yaml:"isSpicy"`
}
