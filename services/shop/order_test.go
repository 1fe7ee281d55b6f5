package shop

import (
	"apex/apperr"
	"apex/models/shop"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSnapshotsPricesAndEmptiesCart(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "amina")
	mug := createProduct(t, db, "Mug", 800, true)
	capItem := createProduct(t, db, "Cap", 1199.5, true)

	_, err := svc.AddToCart(ctx, user, mug.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user, capItem.ID, 1)
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, shop.OrderPending, order.Status)
	assert.InDelta(t, 2799.5, order.TotalAmount, 0.001)
	assert.Regexp(t, `^ORD-[0-9A-F]{12}$`, order.Reference)
	require.Len(t, order.Items, 2)

	// later price changes do not touch the order
	require.NoError(t, db.Model(&mug).Update("price", 999).Error)
	reloaded, err := svc.Order(ctx, user, order.ID)
	require.NoError(t, err)
	for _, it := range reloaded.Items {
		if it.ProductID == mug.ID {
			assert.InDelta(t, 800, it.Price, 0.001)
		}
	}

	view, err := svc.Cart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	user := createUser(t, db, "amina")

	_, err := svc.Checkout(context.Background(), user)
	assert.True(t, apperr.Is(err, apperr.ValidationFailed))

	var orders int64
	require.NoError(t, db.Model(&shop.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCheckoutRejectsDeactivatedProduct(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	user := createUser(t, db, "amina")
	mug := createProduct(t, db, "Mug", 800, true)

	_, err := svc.AddToCart(ctx, user, mug.ID, 1)
	require.NoError(t, err)
	require.NoError(t, db.Model(&mug).Update("is_active", false).Error)

	_, err = svc.Checkout(ctx, user)
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	// the cart survives the failed checkout
	var items int64
	require.NoError(t, db.Model(&shop.CartItem{}).Count(&items).Error)
	assert.EqualValues(t, 1, items)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	owner := createUser(t, db, "amina")
	other := createUser(t, db, "brian")
	mug := createProduct(t, db, "Mug", 800, true)

	_, err := svc.AddToCart(ctx, owner, mug.ID, 1)
	require.NoError(t, err)
	order, err := svc.Checkout(ctx, owner)
	require.NoError(t, err)

	_, err = svc.Order(ctx, other, order.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	mine, err := svc.Orders(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.Orders(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
