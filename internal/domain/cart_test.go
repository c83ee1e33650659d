package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct(id, name string, price float64) Product {
	return Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: "modernos",
		InStock:  true,
	}
}

func TestAddItem_SameLineMerges(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	p := sampleProduct("p1", "Sillón Retro", 1000)

	cart.AddItem(p, "black")
	cart.AddItem(p, "black")

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, float64(2000), cart.TotalPrice())
}

func TestAddItem_DifferentColorsAreDistinctLines(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	p := sampleProduct("p1", "Sillón Retro", 1000)

	cart.AddItem(p, "black")
	cart.AddItem(p, "white")

	require.Len(t, cart.Items, 2)
	assert.Equal(t, float64(2000), cart.TotalPrice())
	assert.Equal(t, 2, cart.TotalItems())
}

func TestAddItem_NoColorMergesWithNoColor(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	p := sampleProduct("p1", "Sillón Retro", 1000)

	cart.AddItem(p, "")
	cart.AddItem(p, "")
	cart.AddItem(p, "black")

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	cart.AddItem(sampleProduct("p1", "Sillón Retro", 1000), "black")

	found := cart.SetQuantity("p1", "black", 0)

	assert.True(t, found)
	assert.Empty(t, cart.Items)
}

func TestSetQuantity_NegativeRemovesLine(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	cart.AddItem(sampleProduct("p1", "Sillón Retro", 1000), "black")

	found := cart.SetQuantity("p1", "black", -1)

	assert.True(t, found)
	assert.Empty(t, cart.Items)
}

func TestSetQuantity_UnknownLine(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	cart.AddItem(sampleProduct("p1", "Sillón Retro", 1000), "black")

	assert.False(t, cart.SetQuantity("p1", "white", 3))
	assert.False(t, cart.SetQuantity("p2", "black", 3))
	// Unaffected by the misses
	assert.Equal(t, 1, cart.TotalItems())
}

func TestRemoveLine_OnlyMatchingColor(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	p := sampleProduct("p1", "Sillón Retro", 1000)
	cart.AddItem(p, "black")
	cart.AddItem(p, "black")
	cart.AddItem(p, "white")

	removed := cart.RemoveLine("p1", "black")

	assert.True(t, removed)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "white", cart.Items[0].SelectedColor)
	assert.Equal(t, float64(1000), cart.TotalPrice())
}

func TestClear_ResetsTotals(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	cart.AddItem(sampleProduct("p1", "Sillón Retro", 1000), "black")
	cart.AddItem(sampleProduct("p2", "Sofá Esquinero", 2500), "")

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, float64(0), cart.TotalPrice())
}

func TestTotalPrice_SumOverLines(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	p1 := sampleProduct("p1", "Sillón Retro", 1000)
	p2 := sampleProduct("p2", "Sofá Esquinero", 2500)

	cart.AddItem(p1, "black")
	cart.AddItem(p2, "")
	require.True(t, cart.SetQuantity("p2", "", 3))
	cart.AddItem(p1, "black")

	assert.Equal(t, float64(1000*2+2500*3), cart.TotalPrice())
	assert.Equal(t, 5, cart.TotalItems())
}

// Walks the scenario from the product brief: merging, color-keyed lines
// and removal interact as a customer would drive them from the drawer.
func TestCart_DrawerScenario(t *testing.T) {
	cart := &Cart{SessionID: "s1"}
	a := sampleProduct("a", "Sillón A", 1000)

	cart.AddItem(a, "black")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	cart.AddItem(a, "black")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, float64(2000), cart.TotalPrice())

	cart.AddItem(a, "white")
	require.Len(t, cart.Items, 2)
	assert.Equal(t, float64(3000), cart.TotalPrice())

	cart.RemoveLine("a", "black")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "white", cart.Items[0].SelectedColor)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, float64(1000), cart.TotalPrice())
}
