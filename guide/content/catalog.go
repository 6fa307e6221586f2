package content

import (
	"fmt"
	"strings"
)

// Catalog is an immutable, ordered exhibit table safe for concurrent reads.
type Catalog struct {
	items  []Exhibit
	byName map[string]int
}

// NewCatalog validates records and builds a catalog that keeps source order.
func NewCatalog(items []Exhibit) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Exhibit, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for i, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, fmt.Errorf("%w: record %d has an empty name", ErrInvalid, i)
		}
		if reservedName(item.Name) {
			return nil, fmt.Errorf("%w: record %q collides with a navigation label or command", ErrInvalid, item.Name)
		}
		if !item.Kind.Valid() {
			return nil, fmt.Errorf("%w: record %q has unknown type %q", ErrInvalid, item.Name, item.Kind)
		}
		if _, dup := c.byName[item.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate exhibit name %q", ErrInvalid, item.Name)
		}
		c.byName[item.Name] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// navigationLabels are answered by the conversation before any exhibit
// lookup, so an exhibit carrying one of them could never be selected.
var navigationLabels = map[string]struct{}{
	"<<- Вернуться назад":   {},
	"<<--- Вернуться назад": {},
	"Вернуться в начало":    {},
}

func reservedName(name string) bool {
	if strings.HasPrefix(name, "/") {
		return true
	}
	_, ok := navigationLabels[name]
	return ok
}

// Len returns the number of exhibits.
func (c *Catalog) Len() int {
	return len(c.items)
}

// All returns a copy of every exhibit in source order.
func (c *Catalog) All() []Exhibit {
	return append([]Exhibit(nil), c.items...)
}

// Find looks an exhibit up by its exact name.
func (c *Catalog) Find(name string) (Exhibit, error) {
	if i, ok := c.byName[name]; ok {
		return c.items[i], nil
	}
	return Exhibit{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Intro returns the first introduction record.
func (c *Catalog) Intro() (Exhibit, error) {
	for _, item := range c.items {
		if item.Kind == KindIntro {
			return item, nil
		}
	}
	return Exhibit{}, fmt.Errorf("%w: no introduction record", ErrNotFound)
}

// NamesByKind lists exhibit names of one kind in source order.
func (c *Catalog) NamesByKind(kind Kind) []string {
	var names []string
	for _, item := range c.items {
		if item.Kind == kind {
			names = append(names, item.Name)
		}
	}
	return names
}

// NamesWithVideo lists exhibits that have a video review, in source order.
func (c *Catalog) NamesWithVideo() []string {
	var names []string
	for _, item := range c.items {
		if item.HasVideo() {
			names = append(names, item.Name)
		}
	}
	return names
}

// CountByKind reports how many exhibits each kind has.
func (c *Catalog) CountByKind() map[Kind]int {
	out := make(map[Kind]int, 4)
	for _, item := range c.items {
		out[item.Kind]++
	}
	return out
}
