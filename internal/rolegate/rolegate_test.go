package rolegate_test

import (
	"testing"

	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/orderstate"
	"github.com/linemk/marketplace-shop/internal/rolegate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(id, buyer, seller string, status models.OrderStatus) models.OrderView {
	return models.OrderView{
		Order:  models.Order{ID: id, BuyerID: buyer, SellerID: seller, Status: status},
		Buyer:  &models.Party{Name: "Bob", Email: "bob@example.com"},
		Seller: &models.Party{Name: "Sam", Email: "sam@example.com", BrandName: "Sam's Shop"},
	}
}

func TestVisibleTo(t *testing.T) {
	o := models.Order{BuyerID: "b1", SellerID: "s1"}

	assert.True(t, rolegate.VisibleTo("b1")(o))
	assert.True(t, rolegate.VisibleTo("s1")(o))
	assert.False(t, rolegate.VisibleTo("x")(o))
	assert.False(t, rolegate.VisibleTo("")(models.Order{}))
}

func TestFilter(t *testing.T) {
	views := []models.OrderView{
		view("o1", "b1", "s1", models.OrderStatusPending),
		view("o2", "b2", "s2", models.OrderStatusPending),
		view("o3", "b2", "b1", models.OrderStatusConfirmed),
	}

	got := rolegate.Filter(views, "b1")
	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, "o3", got[1].ID)
}

func TestActionsFor(t *testing.T) {
	seller := models.Viewer{ID: "s1", Role: models.RoleSeller}
	buyer := models.Viewer{ID: "b1", Role: models.RoleBuyer}

	pending := models.Order{BuyerID: "b1", SellerID: "s1", Status: models.OrderStatusPending}
	confirmed := models.Order{BuyerID: "b1", SellerID: "s1", Status: models.OrderStatusConfirmed}

	assert.Equal(t, []orderstate.Action{orderstate.ActionConfirm}, rolegate.ActionsFor(pending, seller))
	assert.Equal(t, []orderstate.Action{orderstate.ActionComplete}, rolegate.ActionsFor(confirmed, seller))
	assert.Empty(t, rolegate.ActionsFor(pending, buyer))
}

func TestCounterpartFor(t *testing.T) {
	v := view("o1", "b1", "s1", models.OrderStatusPending)

	p, ok := rolegate.CounterpartFor(v, models.RoleBuyer)
	assert.True(t, ok)
	assert.Equal(t, rolegate.Panel{Kind: rolegate.PanelSeller, Name: "Sam's Shop", Email: "sam@example.com"}, p)

	p, ok = rolegate.CounterpartFor(v, models.RoleSeller)
	assert.True(t, ok)
	assert.Equal(t, rolegate.Panel{Kind: rolegate.PanelBuyer, Name: "Bob", Email: "bob@example.com"}, p)

	_, ok = rolegate.CounterpartFor(v, models.RoleAdmin)
	assert.False(t, ok)
}

func TestCounterpartFor_BrandFallsBackToName(t *testing.T) {
	v := view("o1", "b1", "s1", models.OrderStatusPending)
	v.Seller.BrandName = ""

	p, _ := rolegate.CounterpartFor(v, models.RoleBuyer)
	assert.Equal(t, "Sam", p.Name)
}

func TestCounterpartFor_MissingJoin(t *testing.T) {
	v := models.OrderView{Order: models.Order{BuyerID: "b1", SellerID: "s1"}}

	p, ok := rolegate.CounterpartFor(v, models.RoleBuyer)
	assert.True(t, ok)
	assert.Equal(t, rolegate.PanelSeller, p.Kind)
	assert.Empty(t, p.Name)
}
