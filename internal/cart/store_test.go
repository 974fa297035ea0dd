package cart_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govitrine/internal/cart"
	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
)

func intPtr(v int) *int { return &v }

var fixed = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func newCart() *cart.Store {
	return cart.NewCart(cart.WithClock(func() time.Time { return fixed }))
}

func TestAdd_AccumulatesAndClamps(t *testing.T) {
	store := newCart()
	item := domain.LineItem{ProductID: "p1", UnitPrice: 20, MaxQuantity: intPtr(3), InitialQuantity: 2}

	_, err := store.Add(item)
	require.NoError(t, err)
	line, err := store.Add(item)
	require.NoError(t, err)

	assert.Equal(t, 3, line.Quantity)

	snap := store.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 3, snap.TotalItemCount)
	assert.Equal(t, 60.0, snap.TotalPrice)
	assert.Equal(t, fixed, snap.Lines[0].AddedAt)
}

func TestAdd_UnboundedSumsQuantities(t *testing.T) {
	store := newCart()

	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 5, InitialQuantity: 4})
	line, err := store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 5, InitialQuantity: 7})

	require.NoError(t, err)
	assert.Equal(t, 11, line.Quantity)
}

func TestAdd_DefaultsToOneAndKeepsFirstPrice(t *testing.T) {
	store := newCart()

	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 10})
	line, _ := store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 99, MaxQuantity: intPtr(5)})

	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 10.0, line.UnitPrice)
	require.NotNil(t, line.MaxQuantity)
	assert.Equal(t, 5, *line.MaxQuantity)
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	store := newCart()
	for _, id := range []string{"c", "a", "b"} {
		store.Add(domain.LineItem{ProductID: id, UnitPrice: 1})
	}
	store.Add(domain.LineItem{ProductID: "c", UnitPrice: 1})
	store.Remove("a")
	store.Add(domain.LineItem{ProductID: "a", UnitPrice: 1})

	snap := store.Snapshot()
	got := make([]string, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		got = append(got, l.ProductID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
}

func TestAdd_OutOfStockRejectedInCart(t *testing.T) {
	store := newCart()

	_, err := store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 10, MaxQuantity: intPtr(0)})

	require.Error(t, err)
	assert.True(t, apperror.IsInvalidQuantity(err))
	assert.Empty(t, store.Snapshot().Lines)
}

func TestAdd_InvalidInput(t *testing.T) {
	store := newCart()

	_, err := store.Add(domain.LineItem{UnitPrice: 10})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = store.Add(domain.LineItem{ProductID: "p1", UnitPrice: -1})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 1, InitialQuantity: -3})
	assert.True(t, apperror.IsInvalidQuantity(err))

	assert.Equal(t, uint64(0), store.Snapshot().Version)
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	store := newCart()
	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 1})
	before := store.Snapshot()

	store.Remove("missing")

	assert.Equal(t, before, store.Snapshot())
}

func TestSetQuantity_OutOfBoundsLeavesStateUnchanged(t *testing.T) {
	store := newCart()
	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 20, MaxQuantity: intPtr(3), InitialQuantity: 2})
	before := store.Snapshot()

	for _, q := range []int{0, 4, -1} {
		err := store.SetQuantity("p1", q)
		require.Error(t, err)
		assert.True(t, apperror.IsInvalidQuantity(err), "quantity %d", q)
		assert.Equal(t, before, store.Snapshot())
	}

	require.NoError(t, store.SetQuantity("p1", 3))
	assert.Equal(t, 60.0, store.Snapshot().TotalPrice)
}

func TestSetQuantity_ErrorCarriesBound(t *testing.T) {
	store := newCart()
	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 20, MaxQuantity: intPtr(3)})

	err := store.SetQuantity("p1", 9)

	var qe *apperror.InvalidQuantityError
	require.ErrorAs(t, err, &qe)
	require.NotNil(t, qe.Max)
	assert.Equal(t, 3, *qe.Max)
	assert.Equal(t, 9, qe.Requested)
}

func TestSetQuantity_AbsentIsNotFound(t *testing.T) {
	err := newCart().SetQuantity("ghost", 1)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestToggle_FlipsPresence(t *testing.T) {
	store := cart.NewWishlist()
	item := domain.LineItem{ProductID: "p1", UnitPrice: 30}

	present, err := store.Toggle(item)
	require.NoError(t, err)
	assert.True(t, present)
	assert.True(t, store.Contains("p1"))

	present, err = store.Toggle(item)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Empty(t, store.Snapshot().Lines)
}

func TestToggle_ConcurrentEvenCallsEndAbsent(t *testing.T) {
	store := cart.NewWishlist()
	item := domain.LineItem{ProductID: "p1", UnitPrice: 30}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Toggle(item)
		}()
	}
	wg.Wait()

	assert.False(t, store.Contains("p1"))
}

func TestWishlist_QuantityFixedAtOne(t *testing.T) {
	store := cart.NewWishlist()

	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 10, InitialQuantity: 5})
	line, err := store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 10, InitialQuantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	// fora de estoque é aceito na wishlist
	_, err = store.Add(domain.LineItem{ProductID: "p2", UnitPrice: 10, MaxQuantity: intPtr(0)})
	require.NoError(t, err)

	assert.True(t, apperror.IsInvalidQuantity(store.SetQuantity("p1", 2)))
	assert.NoError(t, store.SetQuantity("p1", 1))
	assert.Equal(t, 2, store.Snapshot().TotalItemCount)
}

func TestClear(t *testing.T) {
	store := newCart()
	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 1})
	store.Add(domain.LineItem{ProductID: "p2", UnitPrice: 1})

	store.Clear()

	snap := store.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Equal(t, 0, snap.TotalItemCount)
	assert.Equal(t, 0.0, snap.TotalPrice)
	assert.False(t, store.Contains("p1"))
}

func TestSnapshot_ReflectsNetEffect(t *testing.T) {
	store := newCart()
	store.Add(domain.LineItem{ProductID: "a", UnitPrice: 2, InitialQuantity: 2})
	store.Add(domain.LineItem{ProductID: "b", UnitPrice: 3})
	store.Remove("a")
	store.Add(domain.LineItem{ProductID: "c", UnitPrice: 4, InitialQuantity: 3})
	store.Add(domain.LineItem{ProductID: "b", UnitPrice: 3})

	snap := store.Snapshot()

	require.Len(t, snap.Lines, 2)
	assert.Equal(t, "b", snap.Lines[0].ProductID)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 5, snap.TotalItemCount)
	assert.Equal(t, 18.0, snap.TotalPrice)
}

func TestSnapshot_IsDetachedFromState(t *testing.T) {
	store := newCart()
	store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 1, MaxQuantity: intPtr(4)})

	snap := store.Snapshot()
	snap.Lines[0].Quantity = 99
	*snap.Lines[0].MaxQuantity = 99

	fresh := store.Snapshot()
	assert.Equal(t, 1, fresh.Lines[0].Quantity)
	assert.Equal(t, 4, *fresh.Lines[0].MaxQuantity)
}

func TestConcurrentAdds_NoLostUpdate(t *testing.T) {
	store := newCart()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(domain.LineItem{ProductID: "p1", UnitPrice: 1})
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 200, snap.Lines[0].Quantity)
}

func TestRestore(t *testing.T) {
	source := newCart()
	source.Add(domain.LineItem{ProductID: "p1", UnitPrice: 10, MaxQuantity: intPtr(5), InitialQuantity: 2})
	source.Add(domain.LineItem{ProductID: "p2", UnitPrice: 4})
	snap := source.Snapshot()

	snap.Lines = append(snap.Lines, domain.CartLine{ProductID: "p1", UnitPrice: 1, Quantity: 1})
	snap.Lines = append(snap.Lines, domain.CartLine{ProductID: "", Quantity: 1})

	restored := newCart()
	restored.Restore(snap)

	got := restored.Snapshot()
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 24.0, got.TotalPrice)
	assert.Equal(t, snap.Version, got.Version)

	line, err := restored.Add(domain.LineItem{ProductID: "p1", UnitPrice: 10, MaxQuantity: intPtr(5), InitialQuantity: 9})
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
}
