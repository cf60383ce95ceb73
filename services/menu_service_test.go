package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/buffet-app/models"
)

func menuNames(items []models.MenuItem) []string {
	names := make([]string, 0, len(items))
	for _, m := range items {
		names = append(names, m.NameEN)
	}
	return names
}

func TestScopedMenuFollowsTier(t *testing.T) {
	f := newFixture(t)
	svc := NewMenuService(f.db)

	pork, err := svc.ScopedMenu(ctx(), f.pork.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pork belly"}, menuNames(pork))

	beef, err := svc.ScopedMenu(ctx(), f.beef.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pork belly", "Sliced beef"}, menuNames(beef))

	onlyBeef, err := svc.ScopedMenu(ctx(), f.beef.ID, "เนื้อ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sliced beef"}, menuNames(onlyBeef))

	_, err = svc.ScopedMenu(ctx(), 999, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateBuffetTypeAndMenuItem(t *testing.T) {
	f := newFixture(t)
	svc := NewMenuService(f.db)

	bt, err := svc.CreateBuffetType(ctx(), BuffetTypeInput{Name: " Seafood ", PricePerHead: dec("499"), Tier: 3})
	require.NoError(t, err)
	assert.Equal(t, "Seafood", bt.Name)

	_, err = svc.CreateBuffetType(ctx(), BuffetTypeInput{Name: "Free", PricePerHead: dec("-1")})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = svc.CreateBuffetType(ctx(), BuffetTypeInput{Name: "Bad tier", Tier: -2})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	hidden := false
	item, err := svc.CreateMenuItem(ctx(), MenuItemInput{
		NameTH: "กุ้ง", NameEN: "Shrimp", Category: "ทะเล", BuffetTypeID: bt.ID, Available: &hidden,
	})
	require.NoError(t, err)
	assert.False(t, item.Available)

	item, err = svc.CreateMenuItem(ctx(), MenuItemInput{
		NameTH: "หมึก", NameEN: "Squid", Category: "ทะเล", BuffetTypeID: bt.ID,
	})
	require.NoError(t, err)
	assert.True(t, item.Available)

	_, err = svc.CreateMenuItem(ctx(), MenuItemInput{
		NameTH: "x", NameEN: "x", Category: "x", BuffetTypeID: 999,
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	seafood, err := svc.ScopedMenu(ctx(), bt.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pork belly", "Sliced beef", "Squid"}, menuNames(seafood))

	types, err := svc.ListBuffetTypes(ctx())
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "Seafood", types[2].Name)
}

func TestSessionView(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t, f.tables[0].ID, f.beef.ID, 2)
	loaded, err := NewOrderService(f.db).GetOrderByToken(ctx(), order.TrackingToken)
	require.NoError(t, err)

	view, err := NewMenuService(f.db).Session(ctx(), loaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"หมู", "เนื้อ"}, view.Categories)
	assert.Len(t, view.Menu, 2)
	assert.Equal(t, order.ID, view.Order.ID)
}

func TestEventFeed(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t, f.tables[0].ID, f.pork.ID, 2)
	_, err := NewKitchenService(f.db).SubmitCart(ctx(), order.ID, []CartItem{{MenuItemID: f.porkItem.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = NewOrderService(f.db).UpdateOrderStatus(ctx(), order.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	svc := NewEventService(f.db, 0)
	events, err := svc.ListAfter(ctx(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventOrderCreated, events[0].Kind)
	assert.Equal(t, models.EventCartSubmitted, events[1].Kind)
	assert.Equal(t, models.EventOrderStatus, events[2].Kind)

	rest, err := svc.ListAfter(ctx(), events[0].ID, 1)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, events[1].ID, rest[0].ID)

	// Failed operations leave no event behind.
	_, err = NewOrderService(f.db).UpdateOrderStatus(ctx(), order.ID, models.OrderStatusCancelled)
	require.Error(t, err)
	after, err := svc.ListAfter(ctx(), events[2].ID, 10)
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestServiceErrorMatching(t *testing.T) {
	err := newError(KindTableUnavailable, "table %d is not available", 4)
	assert.True(t, errors.Is(err, ErrTableUnavailable))
	assert.False(t, errors.Is(err, ErrInvalidCart))
	assert.Equal(t, "table 4 is not available", err.Error())

	cause := errors.New("disk full")
	wrapped := storageError("create order", cause)
	assert.True(t, errors.Is(wrapped, ErrStorage))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, KindStorage, KindOf(wrapped))
	assert.Equal(t, KindTableUnavailable, KindOf(storageError("x", err)))
}
