package instruments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solstocks/trading-gateway/pkg/model"
)

func TestCatalog_GetAndPrice(t *testing.T) {
	c := NewCatalog(DefaultListings())

	ins, ok := c.Get("COIN")
	require.True(t, ok)
	assert.Equal(t, model.CategoryCrypto, ins.Category)

	price, ok := c.CurrentPrice("COIN")
	require.True(t, ok)
	assert.Equal(t, 245.67, price)

	_, ok = c.Get("ZZZZ")
	assert.False(t, ok)
	_, ok = c.CurrentPrice("ZZZZ")
	assert.False(t, ok)
}

func TestCatalog_UpdatePrice(t *testing.T) {
	c := NewCatalog(DefaultListings())

	c.UpdatePrice("AAPL", 181.10)
	price, ok := c.CurrentPrice("AAPL")
	require.True(t, ok)
	assert.Equal(t, 181.10, price)

	// unknown symbols never enter the catalog
	c.UpdatePrice("ZZZZ", 1)
	_, ok = c.Get("ZZZZ")
	assert.False(t, ok)
}

func TestCatalog_ListSorted(t *testing.T) {
	c := NewCatalog([]model.Instrument{
		{Symbol: "TSLA"},
		{Symbol: "AAPL"},
		{Symbol: "COIN"},
	})

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Equal(t, "COIN", list[1].Symbol)
	assert.Equal(t, "TSLA", list[2].Symbol)
}

func TestCatalog_SymbolsByCategory(t *testing.T) {
	c := NewCatalog(DefaultListings())

	crypto := c.SymbolsByCategory(model.CategoryCrypto)
	assert.Contains(t, crypto, "COIN")
	assert.Contains(t, crypto, "RIOT")
	assert.NotContains(t, crypto, "AAPL")
}
