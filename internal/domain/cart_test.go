package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(productID string, price float64, stock int) ProductSnapshot {
	return ProductSnapshot{
		ProductID: productID,
		Name:      "Product " + productID,
		Price:     decimal.NewFromFloat(price),
		Image:     "https://img.example.com/" + productID + ".jpg",
		Category:  "chair",
		Stock:     stock,
	}
}

func TestCart_AddItem_NewLineItem(t *testing.T) {
	var cart Cart

	outcome := cart.AddItem(snapshot("p1", 19.99, 5), 2)

	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.NotEmpty(t, item.ID)
	assert.NotEqual(t, "p1", item.ID)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 5, item.Stock)
}

func TestCart_AddItem_MergesByProductID(t *testing.T) {
	var cart Cart

	cart.AddItem(snapshot("p1", 10, 5), 1)
	outcome := cart.AddItem(snapshot("p1", 10, 5), 2)

	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCart_AddItem_ClampsMergeToSnapshotStock(t *testing.T) {
	var cart Cart

	cart.AddItem(snapshot("p1", 20, 3), 1)
	cart.AddItem(snapshot("p1", 20, 3), 1)
	cart.AddItem(snapshot("p1", 20, 3), 1)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// At the ceiling, a further add changes nothing.
	outcome := cart.AddItem(snapshot("p1", 20, 3), 1)
	assert.Equal(t, OutcomeClamped, outcome)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCart_AddItem_LaterStockValueDoesNotGovern(t *testing.T) {
	var cart Cart

	cart.AddItem(snapshot("p1", 10, 2), 1)
	// A later add arrives with a higher stock value; the original snapshot
	// ceiling still governs the clamp.
	outcome := cart.AddItem(snapshot("p1", 10, 99), 5)

	assert.Equal(t, OutcomeClamped, outcome)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 2, cart.Items[0].Stock)
}

func TestCart_AddItem_DefaultStock(t *testing.T) {
	var cart Cart

	cart.AddItem(snapshot("p1", 10, 0), 1)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, DefaultStock, cart.Items[0].Stock)
}

func TestCart_AddItem_PreservesInsertionOrder(t *testing.T) {
	var cart Cart

	cart.AddItem(snapshot("p1", 1, 5), 1)
	cart.AddItem(snapshot("p2", 2, 5), 1)
	cart.AddItem(snapshot("p3", 3, 5), 1)
	cart.AddItem(snapshot("p2", 2, 5), 1) // merge must not reorder

	require.Len(t, cart.Items, 3)
	assert.Equal(t, "p1", cart.Items[0].ProductID)
	assert.Equal(t, "p2", cart.Items[1].ProductID)
	assert.Equal(t, "p3", cart.Items[2].ProductID)
}

func TestCart_RemoveItem(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 10, 5), 1)
	cart.AddItem(snapshot("p2", 20, 5), 1)
	id := cart.Items[0].ID

	outcome := cart.RemoveItem(id)

	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}

func TestCart_RemoveItem_AbsentIsNoOp(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 10, 5), 2)
	before := append([]CartLineItem(nil), cart.Items...)

	outcome := cart.RemoveItem("nonexistent-id")

	assert.Equal(t, OutcomeNoOpNotFound, outcome)
	assert.Equal(t, before, cart.Items)
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantOutcome  Outcome
		wantQuantity int
		wantRemoved  bool
	}{
		{name: "exact set", quantity: 4, wantOutcome: OutcomeApplied, wantQuantity: 4},
		{name: "clamps above stock", quantity: 9, wantOutcome: OutcomeClamped, wantQuantity: 5},
		{name: "zero removes", quantity: 0, wantOutcome: OutcomeApplied, wantRemoved: true},
		{name: "negative removes", quantity: -3, wantOutcome: OutcomeApplied, wantRemoved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			cart.AddItem(snapshot("p1", 10, 5), 2)
			id := cart.Items[0].ID

			outcome := cart.UpdateQuantity(id, tt.quantity)

			assert.Equal(t, tt.wantOutcome, outcome)
			if tt.wantRemoved {
				assert.Empty(t, cart.Items)
				return
			}
			require.Len(t, cart.Items, 1)
			assert.Equal(t, tt.wantQuantity, cart.Items[0].Quantity)
		})
	}
}

func TestCart_UpdateQuantity_AbsentIsNoOp(t *testing.T) {
	var cart Cart

	outcome := cart.UpdateQuantity("nonexistent-id", 3)

	assert.Equal(t, OutcomeNoOpNotFound, outcome)
	assert.Empty(t, cart.Items)
}

func TestCart_IncrementQuantity(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 10, 3), 1)
	id := cart.Items[0].ID

	assert.Equal(t, OutcomeApplied, cart.IncrementQuantity(id))
	assert.Equal(t, OutcomeApplied, cart.IncrementQuantity(id))
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// At the stock ceiling the increment is refused and quantity is unchanged.
	assert.Equal(t, OutcomeNoOpAtCeiling, cart.IncrementQuantity(id))
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCart_DecrementQuantity(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 10, 5), 2)
	id := cart.Items[0].ID

	assert.Equal(t, OutcomeApplied, cart.DecrementQuantity(id))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// Decrementing the last unit removes the line item entirely.
	assert.Equal(t, OutcomeApplied, cart.DecrementQuantity(id))
	assert.Empty(t, cart.Items)

	assert.Equal(t, OutcomeNoOpNotFound, cart.DecrementQuantity(id))
}

func TestCart_Clear_Idempotent(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 10, 5), 2)
	cart.AddItem(snapshot("p2", 5, 5), 3)

	assert.Equal(t, OutcomeApplied, cart.Clear())
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.Subtotal().IsZero())

	assert.Equal(t, OutcomeApplied, cart.Clear())
	assert.Empty(t, cart.Items)
}

func TestCart_Selectors(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 10, 5), 2)
	cart.AddItem(snapshot("p2", 5, 5), 3)

	assert.Equal(t, 5, cart.ItemCount())
	assert.True(t, decimal.NewFromInt(35).Equal(cart.Subtotal()),
		"subtotal = %s, want 35", cart.Subtotal())

	item, ok := cart.FindByProductID("p2")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)

	_, ok = cart.FindByProductID("p9")
	assert.False(t, ok)
}

func TestCart_Selectors_Empty(t *testing.T) {
	var cart Cart

	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCart_Subtotal_NoFloatArtifacts(t *testing.T) {
	var cart Cart
	cart.AddItem(snapshot("p1", 0.1, 10), 3)

	assert.Equal(t, "0.3", cart.Subtotal().String())
}

func TestCart_QuantityBounds_AcrossCommandSequences(t *testing.T) {
	var cart Cart

	cart.AddItem(snapshot("p1", 10, 3), 1)
	cart.AddItem(snapshot("p2", 5, 2), 1)
	id1 := cart.Items[0].ID
	id2 := cart.Items[1].ID

	cart.IncrementQuantity(id1)
	cart.IncrementQuantity(id1)
	cart.IncrementQuantity(id1)
	cart.UpdateQuantity(id2, 100)
	cart.AddItem(snapshot("p1", 10, 3), 50)
	cart.DecrementQuantity(id2)

	for _, item := range cart.Items {
		assert.GreaterOrEqual(t, item.Quantity, 1)
		assert.LessOrEqual(t, item.Quantity, item.Stock)
	}
}
