package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/pkg/errors"
)

//go:embed menu.yaml
var defaultMenu []byte

type catalogFile struct {
	Products []domain.Product `yaml:"products"`
}

// Catalog is an immutable, in-memory product list
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// Default returns the built-in menu
func Default() (*Catalog, error) {
	return Parse(defaultMenu)
}

// LoadFile reads a YAML catalog from disk. An empty path means the built-in menu.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		products: file.Products,
		byID:     make(map[string]int, len(file.Products)),
	}
	for i, p := range file.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %s has a negative price", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		c.byID[p.ID] = i
	}

	return c, nil
}

func (c *Catalog) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *Catalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id}
	}
	p := c.products[i]
	return &p, nil
}
