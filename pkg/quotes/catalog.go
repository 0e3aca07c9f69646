// Package quotes holds the fixed, ordered quote catalog.
package quotes

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrOutOfRange   = errors.New("quote index out of range")
	ErrEmptyCatalog = errors.New("quote catalog is empty")
)

type Quote struct {
	Text      string
	Reference string
}

// ShareText renders a quote for sharing outside the bot.
func (q Quote) ShareText() string {
	return fmt.Sprintf("“%s”\n\n— %s", q.Text, q.Reference)
}

// Catalog is immutable after construction. Quote identity is the index.
type Catalog struct {
	quotes []Quote
}

func NewCatalog(items []Quote) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	copied := make([]Quote, len(items))
	copy(copied, items)
	return &Catalog{quotes: copied}, nil
}

// Builtin returns the catalog shipped with the bot.
func Builtin() *Catalog {
	catalog, err := NewCatalog(builtinQuotes)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Load reads a CSV catalog from path, or returns Builtin when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items, _, err := ParseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse quotes file %s: %w", path, err)
	}
	return NewCatalog(items)
}

func (c *Catalog) Count() int {
	return len(c.quotes)
}

func (c *Catalog) At(index int) (Quote, error) {
	if !c.Contains(index) {
		return Quote{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(c.quotes))
	}
	return c.quotes[index], nil
}

// Clamp maps an invalid index onto the nearest valid one.
func (c *Catalog) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index >= len(c.quotes) {
		return len(c.quotes) - 1
	}
	return index
}

func (c *Catalog) Contains(index int) bool {
	return index >= 0 && index < len(c.quotes)
}

// Filter drops indices the catalog does not contain, keeping order.
func (c *Catalog) Filter(indices []int) []int {
	kept := make([]int, 0, len(indices))
	for _, index := range indices {
		if c.Contains(index) {
			kept = append(kept, index)
		}
	}
	return kept
}
