package trade_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tradepost/internal/inventory"
	"tradepost/internal/trade"

	"github.com/cucumber/godog"
)

var gold = trade.Currency{Item: "gold", MaxStack: 100}

type vendorTestContext struct {
	main, stock, rollback *inventory.Inventory
	vendor                *trade.Vendor
	desk                  *trade.Desk
	offer                 inventory.ItemStack
	ok                    bool
}

func (c *vendorTestContext) reset() {
	c.main = inventory.New("main", 4, 1, nil)
	c.stock = inventory.New("vendor", 3, 1, nil)
	c.rollback = inventory.New("vendor rollback", 3, 1, nil)
	c.vendor = nil
	c.desk = nil
	c.offer = inventory.ItemStack{}
	c.ok = false
}

func (c *vendorTestContext) aVendorSellingAtWithMaximumStack(item string, price, maxStack int) error {
	c.offer = inventory.ItemStack{Item: inventory.ItemID(item), Quantity: 1, MaxStack: maxStack, Price: price}
	c.vendor = trade.NewVendor(c.stock, c.rollback, map[inventory.ItemID]int{c.offer.Item: price}, false, false)
	c.desk = trade.NewDesk(c.main, gold, nil, nil)
	c.desk.Open(c.vendor)
	return nil
}

func (c *vendorTestContext) theVendorStockIsUnlimited() error {
	if !c.stock.Put(0, c.offer) {
		return errors.New("could not stock the vendor")
	}
	return nil
}

func (c *vendorTestContext) theVendorStockIsLimitedTo(n int) error {
	c.vendor.LimitedStock = true
	if !c.stock.Put(0, c.offer.WithQuantity(n)) {
		return errors.New("could not stock the vendor")
	}
	return nil
}

func (c *vendorTestContext) theVendorKeepsSoldItemsForBuyback() error {
	c.vendor.AllowRollback = true
	return nil
}

func (c *vendorTestContext) thePlayerCarriesGold(n int) error {
	if !trade.AddCurrency(c.main, gold, n) {
		return fmt.Errorf("no room for %d gold", n)
	}
	return nil
}

func (c *vendorTestContext) thePlayerCarriesWorthEach(n int, item string, price int) error {
	s := inventory.ItemStack{Item: inventory.ItemID(item), Quantity: n, MaxStack: 10, Price: price}
	if !c.main.AddItem(s) {
		return fmt.Errorf("no room for %d %s", n, item)
	}
	return nil
}

func selectItem(d *trade.Desk, inv *inventory.Inventory, item string) error {
	for slot := range inv.Capacity() {
		if s, ok := inv.At(slot); ok && s.Item == inventory.ItemID(item) {
			if !d.Select(inv, slot) {
				return fmt.Errorf("could not select %s in %s", item, inv.Name())
			}
			return nil
		}
	}
	return fmt.Errorf("%s holds no %s", inv.Name(), item)
}

func (c *vendorTestContext) thePlayerSelectsTheVendors(item string) error {
	return selectItem(c.desk, c.stock, item)
}

func (c *vendorTestContext) thePlayerSelectsTheir(item string) error {
	return selectItem(c.desk, c.main, item)
}

func (c *vendorTestContext) thePlayerSelectsTheBuyback(item string) error {
	return selectItem(c.desk, c.rollback, item)
}

func (c *vendorTestContext) thePlayerRaisesTheQuantity(n int) error {
	for range n {
		c.desk.Increase()
	}
	return nil
}

func (c *vendorTestContext) thePlayerBuys() error {
	c.ok = c.desk.Buy()
	return nil
}

func (c *vendorTestContext) thePlayerSells() error {
	c.ok = c.desk.Sell()
	return nil
}

func (c *vendorTestContext) thePlayerSwitchesToTheBuybackPool() error {
	if !c.desk.ToggleView() {
		return errors.New("vendor has no buyback pool")
	}
	return nil
}

func (c *vendorTestContext) theTradeSucceeds() error {
	if !c.ok {
		return errors.New("expected the trade to succeed")
	}
	return nil
}

func (c *vendorTestContext) theTradeFails() error {
	if c.ok {
		return errors.New("expected the trade to fail")
	}
	return nil
}

func (c *vendorTestContext) thePlayerHasGold(n int) error {
	if got := trade.GetPlayerCash(c.main, gold.Item); got != n {
		return fmt.Errorf("expected %d gold, got %d", n, got)
	}
	return nil
}

func count(inv *inventory.Inventory, n int, item string) error {
	if got := inv.Count(inventory.ItemID(item)); got != n {
		return fmt.Errorf("expected %d %s in %s, got %d", n, item, inv.Name(), got)
	}
	return nil
}

func (c *vendorTestContext) thePlayerCarries(n int, item string) error {
	return count(c.main, n, item)
}

func (c *vendorTestContext) theVendorStillOffers(n int, item string) error {
	return count(c.stock, n, item)
}

func (c *vendorTestContext) theVendorOffersNo(item string) error {
	return count(c.stock, 0, item)
}

func (c *vendorTestContext) theBuybackPoolHolds(n int, item string) error {
	return count(c.rollback, n, item)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &vendorTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a vendor selling "([^"]*)" at (\d+) with maximum stack (\d+)$`, tc.aVendorSellingAtWithMaximumStack)
	ctx.Step(`^the vendor stock is unlimited$`, tc.theVendorStockIsUnlimited)
	ctx.Step(`^the vendor stock is limited to (\d+)$`, tc.theVendorStockIsLimitedTo)
	ctx.Step(`^the vendor keeps sold items for buyback$`, tc.theVendorKeepsSoldItemsForBuyback)
	ctx.Step(`^the player carries (\d+) gold$`, tc.thePlayerCarriesGold)
	ctx.Step(`^the player carries (\d+) "([^"]*)" worth (\d+) each$`, tc.thePlayerCarriesWorthEach)

	// When steps
	ctx.Step(`^the player selects the vendor's "([^"]*)"$`, tc.thePlayerSelectsTheVendors)
	ctx.Step(`^the player selects their "([^"]*)"$`, tc.thePlayerSelectsTheir)
	ctx.Step(`^the player selects the buyback "([^"]*)"$`, tc.thePlayerSelectsTheBuyback)
	ctx.Step(`^the player raises the quantity (\d+) times?$`, tc.thePlayerRaisesTheQuantity)
	ctx.Step(`^the player buys$`, tc.thePlayerBuys)
	ctx.Step(`^the player sells$`, tc.thePlayerSells)
	ctx.Step(`^the player switches to the buyback pool$`, tc.thePlayerSwitchesToTheBuybackPool)

	// Then steps
	ctx.Step(`^the trade succeeds$`, tc.theTradeSucceeds)
	ctx.Step(`^the trade fails$`, tc.theTradeFails)
	ctx.Step(`^the player has (\d+) gold$`, tc.thePlayerHasGold)
	ctx.Step(`^the player carries (\d+) "([^"]*)"$`, tc.thePlayerCarries)
	ctx.Step(`^the vendor still offers (\d+) "([^"]*)"$`, tc.theVendorStillOffers)
	ctx.Step(`^the vendor offers no "([^"]*)"$`, tc.theVendorOffersNo)
	ctx.Step(`^the buyback pool holds (\d+) "([^"]*)"$`, tc.theBuybackPoolHolds)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/vendor.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
