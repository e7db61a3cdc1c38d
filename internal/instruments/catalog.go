package instruments

import (
	"sort"
	"sync"

	"github.com/solstocks/trading-gateway/pkg/model"
)

// PriceLookup resolves a symbol to its current unit price.
// The catalog implements it; tests can substitute a map-backed fake.
type PriceLookup interface {
	CurrentPrice(symbol string) (float64, bool)
}

// Catalog holds the instrument reference data for a session.
// Immutable after construction aside from price updates.
type Catalog struct {
	mu          sync.RWMutex
	instruments map[string]model.Instrument
}

// NewCatalog builds a catalog from injected reference data.
func NewCatalog(list []model.Instrument) *Catalog {
	c := &Catalog{instruments: make(map[string]model.Instrument, len(list))}
	for _, ins := range list {
		c.instruments[ins.Symbol] = ins
	}
	return c
}

// Get returns the instrument for symbol, if listed.
func (c *Catalog) Get(symbol string) (model.Instrument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ins, ok := c.instruments[symbol]
	return ins, ok
}

// CurrentPrice implements PriceLookup.
func (c *Catalog) CurrentPrice(symbol string) (float64, bool) {
	ins, ok := c.Get(symbol)
	if !ok {
		return 0, false
	}
	return ins.Price, true
}

// UpdatePrice replaces the unit price for a listed symbol.
// Unknown symbols are ignored; the catalog never grows at runtime.
func (c *Catalog) UpdatePrice(symbol string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ins, ok := c.instruments[symbol]
	if !ok {
		return
	}
	ins.Price = price
	c.instruments[symbol] = ins
}

// List returns all instruments, symbol-sorted.
func (c *Catalog) List() []model.Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Instrument, 0, len(c.instruments))
	for _, ins := range c.instruments {
		out = append(out, ins)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// SymbolsByCategory returns the listed symbols carrying the given category.
func (c *Catalog) SymbolsByCategory(cat model.Category) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for sym, ins := range c.instruments {
		if ins.Category == cat {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}
