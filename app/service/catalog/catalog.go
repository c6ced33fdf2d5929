package catalog

import (
	"anbsupport/app/config"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type Product struct {
	Model string
	// Price before discount, ZAR
	ListPrice int
}

var products = []Product{
	{"iPhone XS", 8999},
	{"iPhone XS Max", 9999},
	{"iPhone 11 Pro", 12999},
	{"iPhone 11 Pro Max", 13999},
	{"iPhone 12 Pro", 15999},
	{"iPhone 12 Pro Max", 16999},
	{"iPhone 13 Pro", 17999},
	{"iPhone 13 Pro Max", 18999},
	{"iPhone 14 Pro", 20999},
	{"iPhone 14 Pro Max", 21999},
	{"iPhone 15 Pro", 22999},
	{"iPhone 15 Pro Max", 23999},
	{"iPhone 16 Pro", 24999},
	{"iPhone 16 Pro Max", 25999},
}

type Catalog struct {
	business config.Business

	// longest model name first so "pro max" wins over "pro"
	byNameLength []Product
}

func New(di *do.Injector) (*Catalog, error) {
	cfg := do.MustInvoke[*config.Config](di)
	return NewCatalog(cfg.Business), nil
}

func NewCatalog(business config.Business) *Catalog {
	sorted := pie.SortStableUsing(products, func(a, b Product) bool {
		return len(a.Model) > len(b.Model)
	})

	return &Catalog{
		business:     business,
		byNameLength: sorted,
	}
}

func (c *Catalog) Products() []Product {
	result := make([]Product, len(products))
	copy(result, products)
	return result
}

func (c *Catalog) Price(p Product) int {
	return p.ListPrice * (100 - c.business.DiscountPercent) / 100
}

// FindModel returns the most specific product mentioned in the message.
// A leading "iphone" is optional: "15 pro max" matches too.
func (c *Catalog) FindModel(message string) (Product, bool) {
	msg := strings.ToLower(message)

	for _, p := range c.byNameLength {
		name := strings.ToLower(p.Model)
		if strings.Contains(msg, name) || strings.Contains(msg, strings.TrimPrefix(name, "iphone ")) {
			return p, true
		}
	}

	return Product{}, false
}

// Cheapest is the entry-level model, offered when nothing specific was asked for.
func (c *Catalog) Cheapest() Product {
	return pie.First(pie.SortUsing(c.Products(), func(a, b Product) bool {
		return a.ListPrice < b.ListPrice
	}))
}
