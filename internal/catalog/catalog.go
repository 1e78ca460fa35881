// Package catalog serves the storefront's read-only product data and the
// views derived from it once at load time.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

type Product struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Category     string   `yaml:"category" json:"category"`
	Price        int      `yaml:"price" json:"price"`
	Stock        int      `yaml:"stock" json:"stock"`
	Tags         []string `yaml:"tags" json:"tags"`
	Description  string   `yaml:"description" json:"description"`
	AIHint       string   `yaml:"aiHint" json:"aiHint"`
	RelatedItems []string `yaml:"relatedItems,omitempty" json:"relatedItems,omitempty"`
	Deal         string   `yaml:"deal,omitempty" json:"deal,omitempty"`
}

// HasTag reports whether p carries tag, ignoring case.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type Category struct {
	Name   string `yaml:"name" json:"name"`
	Image  string `yaml:"image" json:"image"`
	AIHint string `yaml:"aiHint" json:"aiHint"`
}

type document struct {
	LowStockThreshold int `yaml:"lowStockThreshold"`
	Inspired          struct {
		Start int `yaml:"start"`
		End   int `yaml:"end"`
	} `yaml:"inspired"`
	Moods      []string   `yaml:"moods"`
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type mood struct {
	name     string
	products []Product
}

// Catalog is immutable after Parse. Accessors hand out copies.
type Catalog struct {
	products   []Product
	byID       map[string]int
	categories []Category
	deals      []Product
	moods      []mood
	inspired   []Product
	lowStock   int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(productsYAML)
	})
	return defaultCatalog, defaultErr
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}

	c := &Catalog{
		products:   doc.Products,
		byID:       make(map[string]int, len(doc.Products)),
		categories: doc.Categories,
		lowStock:   doc.LowStockThreshold,
	}
	for i, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i
	}

	for _, p := range doc.Products {
		if p.Deal != "" {
			c.deals = append(c.deals, p)
		}
	}

	title := cases.Title(language.English)
	for _, name := range doc.Moods {
		tag := strings.ToLower(strings.TrimSpace(name))
		if tag == "" {
			continue
		}
		m := mood{name: title.String(tag)}
		for _, p := range doc.Products {
			if p.HasTag(tag) {
				m.products = append(m.products, p)
			}
		}
		c.moods = append(c.moods, m)
	}

	start := clamp(doc.Inspired.Start, 0, len(doc.Products))
	end := clamp(doc.Inspired.End, start, len(doc.Products))
	c.inspired = doc.Products[start:end]

	return c, nil
}

func (c *Catalog) Products() []Product {
	return cloneProducts(c.products)
}

func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, false
	}
	return cloneProduct(c.products[i]), true
}

// Related resolves the related item ids of product id, skipping unknown ids.
func (c *Catalog) Related(id string) []Product {
	p, ok := c.Product(id)
	if !ok {
		return nil
	}
	var out []Product
	for _, rid := range p.RelatedItems {
		if r, ok := c.Product(rid); ok {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

func (c *Catalog) Deals() []Product {
	return cloneProducts(c.deals)
}

func (c *Catalog) Inspired() []Product {
	return cloneProducts(c.inspired)
}

// Moods lists the mood bucket names in display form, e.g. "Gaming".
func (c *Catalog) Moods() []string {
	out := make([]string, 0, len(c.moods))
	for _, m := range c.moods {
		out = append(out, m.name)
	}
	return out
}

// Mood returns the bucket for name, matched case-insensitively.
func (c *Catalog) Mood(name string) ([]Product, bool) {
	name = strings.TrimSpace(name)
	for _, m := range c.moods {
		if strings.EqualFold(m.name, name) {
			return cloneProducts(m.products), true
		}
	}
	return nil, false
}

func (c *Catalog) LowStockThreshold() int {
	return c.lowStock
}

// LowStock returns products whose stock is strictly below the threshold.
func (c *Catalog) LowStock() []Product {
	var out []Product
	for _, p := range c.products {
		if p.Stock < c.lowStock {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

// ByTags returns products carrying at least one of tags.
func (c *Catalog) ByTags(tags ...string) []Product {
	var out []Product
	for _, p := range c.products {
		for _, tag := range tags {
			if p.HasTag(strings.TrimSpace(tag)) {
				out = append(out, cloneProduct(p))
				break
			}
		}
	}
	return out
}

// MatchNames maps free-form product names (as a model returns them) onto
// catalog products. A name matches on equality or when either contains the
// other, ignoring case. Each product appears once, in catalog order.
func (c *Catalog) MatchNames(names []string) []Product {
	var wanted []string
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			wanted = append(wanted, n)
		}
	}

	var out []Product
	for _, p := range c.products {
		pn := strings.ToLower(p.Name)
		for _, n := range wanted {
			if pn == n || strings.Contains(n, pn) || strings.Contains(pn, n) {
				out = append(out, cloneProduct(p))
				break
			}
		}
	}
	return out
}

// MatchComplementary picks products that go with an analysed item. A
// product qualifies when it matches a complementary item by name or fits
// the style (style tag, accessories, unisex), and is not in the main item's
// category.
func (c *Catalog) MatchComplementary(mainCategory, style string, items []string, limit int) []Product {
	mainCategory = strings.ToLower(strings.TrimSpace(mainCategory))
	style = strings.ToLower(strings.TrimSpace(style))

	lowered := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.ToLower(strings.TrimSpace(it)); it != "" {
			lowered = append(lowered, it)
		}
	}

	var out []Product
	for _, p := range c.products {
		if limit > 0 && len(out) >= limit {
			break
		}

		name := strings.ToLower(p.Name)
		firstWord, _, _ := strings.Cut(name, " ")

		matchesItem := false
		for _, it := range lowered {
			if strings.Contains(name, it) || strings.Contains(it, firstWord) {
				matchesItem = true
				break
			}
		}

		matchesStyle := (style != "" && p.HasTag(style)) || p.HasTag("accessories") || p.HasTag("unisex")
		sameCategory := mainCategory != "" && p.HasTag(mainCategory)

		if (matchesItem || matchesStyle) && !sameCategory {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func cloneProduct(p Product) Product {
	p.Tags = slices.Clone(p.Tags)
	p.RelatedItems = slices.Clone(p.RelatedItems)
	return p
}

func cloneProducts(in []Product) []Product {
	if in == nil {
		return nil
	}
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = cloneProduct(p)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
