package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fusion6/models"
	"fusion6/store"
)

func seededCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog(store.New(store.NewMemoryBackend()).Scope("shop"), zap.NewNop())
	c.Seed(context.Background(), Default())
	return c
}

func TestDefault(t *testing.T) {
	items := Default()

	require.Len(t, items, 12)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "Fusion Burger Deluxe", items[0].Name)
	assert.Equal(t, 14.99, items[0].Price)
	assert.True(t, items[0].IsSpicy)
	assert.Equal(t, "Fresh Lemonade", items[11].Name)
	assert.Equal(t, 2.99, items[11].Price)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("- id: x\n  name: ''\n  price: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = Parse([]byte("- id: last-added\n  name: Soup\n  price: 1\n"))
	assert.ErrorIs(t, err, ErrReservedID)

	_, err = Parse([]byte("{not a list"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: a\n  name: Soup\n  price: 4.5\n  category: Starters\n"), 0o600))

	items, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Soup", items[0].Name)

	items, err = LoadFile("")
	require.NoError(t, err)
	assert.Len(t, items, 12)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_SeedKeepsExistingMenu(t *testing.T) {
	ctx := context.Background()
	c := seededCatalog(t)

	c.Seed(ctx, []models.MenuItem{{Product: models.Product{ID: "x", Name: "Other"}}})

	assert.Len(t, c.List(ctx, ""), 12)
}

func TestCatalog_List(t *testing.T) {
	ctx := context.Background()
	c := seededCatalog(t)

	tests := []struct {
		category string
		want     int
	}{
		{"", 12},
		{"All", 12},
		{"Meals", 4},
		{"snacks", 3},
		{"Desserts", 2},
		{"Drinks", 3},
		{"Brunch", 0},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Len(t, c.List(ctx, tt.category), tt.want)
		})
	}
}

func TestCatalog_Categories(t *testing.T) {
	c := seededCatalog(t)

	assert.Equal(t, []string{"All", "Meals", "Snacks", "Desserts", "Drinks"}, c.Categories(context.Background()))
}

func TestCatalog_Get(t *testing.T) {
	ctx := context.Background()
	c := seededCatalog(t)

	item, err := c.Get(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Lava Cake", item.Name)

	_, err = c.Get(ctx, "99")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCatalog_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	c := seededCatalog(t)

	created, err := c.Create(ctx, models.MenuItem{
		Product:     models.Product{Name: "Fusion Tacos", Price: 8.49, Category: "Snacks"},
		Description: "Soft tacos",
	})
	require.NoError(t, err)
	assert.Equal(t, "13", created.ID)

	_, err = c.Create(ctx, models.MenuItem{Product: models.Product{ID: "13", Name: "Dup", Price: 1}})
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = c.Create(ctx, models.MenuItem{Product: models.Product{Name: "Free lunch", Price: -1}})
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, err = c.Create(ctx, models.MenuItem{Product: models.Product{ID: "last-added", Name: "Sneaky", Price: 1}})
	assert.ErrorIs(t, err, ErrReservedID)

	price := 9.25
	updated, err := c.Update(ctx, "13", Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 9.25, updated.Price)
	assert.Equal(t, "Fusion Tacos", updated.Name)

	negative := -3.0
	_, err = c.Update(ctx, "13", Patch{Price: &negative})
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, err = c.Update(ctx, "404", Patch{Price: &price})
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, c.Delete(ctx, "13"))
	assert.ErrorIs(t, c.Delete(ctx, "13"), ErrItemNotFound)
	assert.Len(t, c.List(ctx, ""), 12)
}
