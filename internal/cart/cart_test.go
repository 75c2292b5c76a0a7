package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(name string, price string) ItemSnapshot {
	return ItemSnapshot{
		ProductID: uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	c := New()
	chair := snapshot("Oak Chair", "79.90")
	lamp := snapshot("Brass Lamp", "120")

	c.AddItem(chair)
	c.AddItem(lamp)
	c.AddItem(chair)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, chair.ProductID, lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, lamp.ProductID, lines[1].ProductID)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 3, c.ItemCount())
}

func TestAddItemKeepsFirstSnapshot(t *testing.T) {
	c := New()
	item := snapshot("Oak Chair", "79.90")
	c.AddItem(item)

	repriced := item
	repriced.Price = decimal.RequireFromString("99.90")
	c.AddItem(repriced)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Price.Equal(decimal.RequireFromString("79.90")))
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestTotalUsesExactArithmetic(t *testing.T) {
	c := New()
	c.AddItem(snapshot("A", "0.10"))
	b := snapshot("B", "0.20")
	c.AddItem(b)
	c.UpdateQuantity(b.ProductID, 3)

	assert.True(t, c.Total().Equal(decimal.RequireFromString("0.70")),
		"got %s", c.Total())
	assert.Equal(t, 4, c.ItemCount())
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	c := New()
	item := snapshot("Oak Chair", "50")
	c.AddItem(item)

	c.UpdateQuantity(item.ProductID, 0)
	assert.Empty(t, c.Lines())
	assert.Equal(t, 0, c.ItemCount())

	c.UpdateQuantity(item.ProductID, 5)
	assert.Empty(t, c.Lines(), "updating an absent product is a no-op")
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	c := New()
	c.AddItem(snapshot("Oak Chair", "50"))
	c.RemoveItem(uuid.New())
	assert.Len(t, c.Lines(), 1)
}

func TestDropLinesRemovesExactQuantities(t *testing.T) {
	c := New()
	chair := snapshot("Oak Chair", "79.90")
	lamp := snapshot("Brass Lamp", "120")
	c.AddItem(chair)
	c.AddItem(lamp)

	frozen := c.Lines()

	// A concurrent add between the snapshot and the drop must survive.
	c.AddItem(chair)
	c.AddItem(snapshot("Ceramic Vase", "45"))

	c.DropLines(frozen)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, chair.ProductID, lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "Ceramic Vase", lines[1].Name)
	assert.Equal(t, 2, c.ItemCount())
}

func TestDropLinesUnknownProductIsNoOp(t *testing.T) {
	c := New()
	item := snapshot("Oak Chair", "50")
	c.AddItem(item)

	c.DropLines([]Line{{ItemSnapshot: snapshot("Ghost", "1"), Quantity: 3}})
	assert.Equal(t, 1, c.ItemCount())

	c.DropLines([]Line{{ItemSnapshot: item, Quantity: 1}})
	assert.Empty(t, c.Lines())
}

func TestClearKeepsPanelFlag(t *testing.T) {
	c := New()
	c.AddItem(snapshot("Oak Chair", "50"))
	c.SetIsOpen(true)

	c.Clear()
	assert.Empty(t, c.Lines())
	assert.True(t, c.Total().IsZero())
	assert.True(t, c.IsOpen())
}

func TestNewCartDTO(t *testing.T) {
	c := New()
	item := snapshot("Oak Chair", "50")
	c.AddItem(item)
	c.AddItem(item)
	c.SetIsOpen(true)

	dto := NewCartDTO(c)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, item.ProductID, dto.Items[0].ProductID)
	assert.Equal(t, 2, dto.Items[0].Quantity)
	assert.True(t, dto.Total.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, 2, dto.ItemCount)
	assert.True(t, dto.IsOpen)
}

func TestRegistryGetAndPrune(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	tokenA, err := NewToken()
	require.NoError(t, err)
	tokenB, err := NewToken()
	require.NoError(t, err)
	require.NotEqual(t, tokenA, tokenB)

	cartA := r.Get(tokenA)
	cartA.AddItem(snapshot("Oak Chair", "50"))
	r.Get(tokenB)
	assert.Equal(t, 2, r.Len())

	assert.Same(t, cartA, r.Get(tokenA), "same token returns the same cart")

	now = now.Add(2 * time.Hour)
	r.Get(tokenB)
	pruned := r.PruneIdle(time.Hour)
	assert.Equal(t, 1, pruned)
	assert.Equal(t, 1, r.Len())

	fresh := r.Get(tokenA)
	assert.Empty(t, fresh.Lines(), "pruned token gets a new empty cart")
}

func TestRegistryDrop(t *testing.T) {
	r := NewRegistry()
	c := r.Get("tok")
	c.AddItem(snapshot("Oak Chair", "50"))

	r.Drop("tok")
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Get("tok").Lines())
}
