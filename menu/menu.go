// Package menu holds the dish catalog shown to customers and edited by admins.
package menu

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"fusion6/models"
	"fusion6/store"
)

const KeyMenu = "menu"

// CategoryAll lists every dish regardless of category.
const CategoryAll = "All"

var (
	ErrItemNotFound = errors.New("menu item not found")
	ErrInvalidItem  = errors.New("menu item needs a name and a non-negative price")
	ErrDuplicateID  = errors.New("menu item id already in use")
	ErrReservedID   = errors.New("menu item id is reserved")
)

// Ids that collide with fixed cart routes such as DELETE /api/cart/last-added.
var reservedIDs = map[string]bool{
	"last-added": true,
}

//go:embed menu.yaml
var seedMenu []byte

// Parse decodes a YAML list of menu items.
func Parse(data []byte) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}
	for _, item := range items {
		if err := validate(item); err != nil {
			return nil, fmt.Errorf("menu item %q: %w", item.ID, err)
		}
	}
	return items, nil
}

// Default returns the built-in menu.
func Default() []models.MenuItem {
	items, err := Parse(seedMenu)
	if err != nil {
		panic(err)
	}
	return items
}

// LoadFile reads a menu from path, or the built-in menu when path is empty.
func LoadFile(path string) ([]models.MenuItem, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}
	return Parse(data)
}

func validate(item models.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" || item.Price < 0 {
		return ErrInvalidItem
	}
	if reservedIDs[strings.ToLower(item.ID)] {
		return fmt.Errorf("%w: %s", ErrReservedID, item.ID)
	}
	return nil
}

type Catalog struct {
	shop   *store.Store
	logger *zap.Logger
	mu     sync.Mutex
}

func NewCatalog(shop *store.Store, logger *zap.Logger) *Catalog {
	return &Catalog{shop: shop, logger: logger}
}

// Seed stores items unless a menu is already present.
func (c *Catalog) Seed(ctx context.Context, items []models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shop.Has(ctx, KeyMenu) {
		return
	}
	c.shop.Save(ctx, KeyMenu, items)
	c.logger.Info("menu seeded", zap.Int("items", len(items)))
}

func (c *Catalog) items(ctx context.Context) []models.MenuItem {
	return store.Load(ctx, c.shop, KeyMenu, []models.MenuItem{})
}

// List returns the dishes of a category. An empty category or "All" returns
// the whole menu.
func (c *Catalog) List(ctx context.Context, category string) []models.MenuItem {
	items := c.items(ctx)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return items
	}

	filtered := []models.MenuItem{}
	for _, item := range items {
		if strings.EqualFold(item.Category, category) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	for _, item := range c.items(ctx) {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

// Categories returns "All" followed by each category in menu order.
func (c *Catalog) Categories(ctx context.Context) []string {
	categories := []string{CategoryAll}
	seen := map[string]bool{}
	for _, item := range c.items(ctx) {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, item.Category)
	}
	return categories
}

// Create adds a dish. A missing id is assigned the next free numeric id.
func (c *Catalog) Create(ctx context.Context, item models.MenuItem) (*models.MenuItem, error) {
	if err := validate(item); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.items(ctx)
	if item.ID == "" {
		item.ID = nextID(items)
	}
	for _, existing := range items {
		if existing.ID == item.ID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
	}

	c.shop.Save(ctx, KeyMenu, append(items, item))
	return &item, nil
}

type Patch struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Image        *string  `json:"image"`
	Category     *string  `json:"category"`
	IsVegetarian *bool    `json:"isVegetarian"`
	IsSpicy      *bool    `json:"isSpicy"`
}

func (c *Catalog) Update(ctx context.Context, id string, patch Patch) (*models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.items(ctx)
	i := indexOf(items, id)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	item := items[i]
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.IsVegetarian != nil {
		item.IsVegetarian = *patch.IsVegetarian
	}
	if patch.IsSpicy != nil {
		item.IsSpicy = *patch.IsSpicy
	}
	if err := validate(item); err != nil {
		return nil, err
	}

	items[i] = item
	c.shop.Save(ctx, KeyMenu, items)
	return &item, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.items(ctx)
	i := indexOf(items, id)
	if i < 0 {
		return ErrItemNotFound
	}
	c.shop.Save(ctx, KeyMenu, append(items[:i], items[i+1:]...))
	return nil
}

func indexOf(items []models.MenuItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func nextID(items []models.MenuItem) string {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if n, err := strconv.Atoi(item.ID); err == nil {
			ids = append(ids, n)
		}
	}
	sort.Ints(ids)
	next := 1
	if len(ids) > 0 {
		next = ids[len(ids)-1] + 1
	}
	return strconv.Itoa(next)
}
