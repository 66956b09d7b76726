package inheritance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
	"github.com/Simplici0/cabinet-cpq/internal/rules"
)

var (
	created = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	later   = created.Add(2 * time.Hour)
)

func newEngine() (*Engine, *catalog.Catalog) {
	c := catalog.Default()
	return New(c, rules.New(c)), c
}

func product(t *testing.T, c *catalog.Catalog, id string) catalog.Product {
	t.Helper()
	p, ok := c.Product(id)
	if !ok {
		t.Fatalf("unknown product %s", id)
	}
	return p
}

func kitchen(activated ...string) quote.Room {
	return quote.Room{ID: "r1", Name: "Kitchen", FrontModelID: "model_shaker", ActivatedProcessings: activated}
}

func TestCompute_PricesAndFlagsInherited(t *testing.T) {
	e, c := newEngine()

	got := e.Compute(kitchen("proc_stain_dark", "proc_install_pulls"), product(t, c, "prod_base_24"), 1, created)
	if len(got) != 2 {
		t.Fatalf("expected 2 inherited entries, got %+v", got)
	}
	if !got[0].CalculatedPrice.Equal(decimal.RequireFromString("42.75")) {
		t.Fatalf("stain price = %s, want 42.75", got[0].CalculatedPrice)
	}
	if !got[1].Inherited() || !got[1].AppliedAt().Equal(created) {
		t.Fatalf("unexpected entry: %+v", got[1])
	}
}

func TestCompute_SkipsNonApplicableCategory(t *testing.T) {
	e, c := newEngine()

	got := e.Compute(kitchen("proc_stain_dark", "proc_led_strip"), product(t, c, "prod_quartz_top"), 1, created)
	if len(got) != 0 {
		t.Fatalf("countertop should inherit nothing from cabinet-only processings, got %+v", got)
	}
}

func TestCompute_SkipsUnknownAndOptionBearing(t *testing.T) {
	e, c := newEngine()

	got := e.Compute(kitchen("proc_missing", "proc_custom_color", "proc_drawer_upgrade"), product(t, c, "prod_base_24"), 2, created)
	if len(got) != 1 || got[0].Processing != "proc_drawer_upgrade" {
		t.Fatalf("expected only the defaulted drawer upgrade, got %+v", got)
	}
	if !got[0].CalculatedPrice.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("drawer upgrade price = %s, want 110", got[0].CalculatedPrice)
	}
}

func TestCompute_RespectsInheritanceRule(t *testing.T) {
	e, c := newEngine()

	if got := e.Compute(kitchen("proc_appliance_panel"), product(t, c, "prod_dishwasher_panel"), 1, created); len(got) != 0 {
		t.Fatalf("appliances do not inherit, got %+v", got)
	}
}

func TestSync_RepricesWithQuantity(t *testing.T) {
	e, c := newEngine()
	room := kitchen("proc_install_pulls")
	base := product(t, c, "prod_base_24")

	it := quote.Item{ID: "i1", ProductID: base.ID, RoomID: room.ID, Quantity: 3, BasePrice: base.BasePrice}
	it.Inherited = e.Compute(room, base, it.Quantity, created)
	if !it.Inherited[0].CalculatedPrice.Equal(decimal.NewFromInt(36)) {
		t.Fatalf("price at qty 3 = %s, want 36", it.Inherited[0].CalculatedPrice)
	}

	it.Quantity = 5
	it = e.Sync(room, it, base, later)
	if !it.Inherited[0].CalculatedPrice.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("price at qty 5 = %s, want 60", it.Inherited[0].CalculatedPrice)
	}
	if !it.Inherited[0].AppliedDate.Equal(created) {
		t.Fatalf("reprice should keep the original applied date")
	}
}

func TestSync_InheritsOnceManualBlockerIsGone(t *testing.T) {
	e, c := newEngine()
	room := kitchen("proc_stain_dark")
	base := product(t, c, "prod_base_24")

	it := quote.Item{ID: "i1", ProductID: base.ID, RoomID: room.ID, Quantity: 2, BasePrice: base.BasePrice}
	it.Manual = []quote.ManualProcessing{{Processing: "proc_paint_white", AppliedDate: created}}
	it = e.Sync(room, it, base, created)
	if len(it.Inherited) != 0 {
		t.Fatalf("paint blocks the stain, got %+v", it.Inherited)
	}

	it.Manual = nil
	it = e.Sync(room, it, base, later)
	if len(it.Inherited) != 1 || it.Inherited[0].Processing != "proc_stain_dark" {
		t.Fatalf("expected the stain to be inherited, got %+v", it.Inherited)
	}
	if !it.Inherited[0].CalculatedPrice.Equal(decimal.RequireFromString("85.5")) {
		t.Fatalf("stain at qty 2 = %s, want 85.5", it.Inherited[0].CalculatedPrice)
	}
	if !it.Inherited[0].AppliedDate.Equal(later) {
		t.Fatalf("a newly inherited entry is dated now")
	}
}

func TestSync_FollowsRoomActivation(t *testing.T) {
	e, c := newEngine()
	base := product(t, c, "prod_base_24")

	it := quote.Item{ID: "i1", ProductID: base.ID, RoomID: "r1", Quantity: 1}
	it.Inherited = e.Compute(kitchen("proc_stain_dark"), base, 1, created)

	it = e.Sync(kitchen("proc_install_pulls"), it, base, later)
	if len(it.Inherited) != 1 || it.Inherited[0].Processing != "proc_install_pulls" {
		t.Fatalf("expected only pulls after re-sync, got %+v", it.Inherited)
	}
	if !it.Inherited[0].AppliedDate.Equal(later) {
		t.Fatalf("newly inherited entry should be stamped now")
	}
}

func TestSync_SkipsManualDuplicatesAndExclusions(t *testing.T) {
	e, c := newEngine()
	base := product(t, c, "prod_base_24")

	it := quote.Item{ID: "i1", ProductID: base.ID, RoomID: "r1", Quantity: 1, Manual: []quote.ManualProcessing{
		{Processing: "proc_install_pulls", CalculatedPrice: decimal.NewFromInt(12)},
		{Processing: "proc_paint_white", CalculatedPrice: decimal.RequireFromString("34.2")},
	}}

	it = e.Sync(kitchen("proc_install_pulls", "proc_stain_dark", "proc_glaze"), it, base, later)
	if len(it.Inherited) != 1 || it.Inherited[0].Processing != "proc_glaze" {
		t.Fatalf("expected only glaze to be inherited, got %+v", it.Inherited)
	}
}

func TestSync_UsesCustomDimensions(t *testing.T) {
	e, c := newEngine()
	base := product(t, c, "prod_base_24")

	it := quote.Item{ID: "i1", ProductID: base.ID, RoomID: "r1", Quantity: 1, CustomDimensions: &catalog.Dimensions{Width: 36, Height: 34.5, Depth: 24}}
	it = e.Sync(kitchen("proc_led_strip"), it, base, created)
	if !it.Inherited[0].CalculatedPrice.Equal(decimal.NewFromInt(126)) {
		t.Fatalf("LED price with 36in width = %s, want 126", it.Inherited[0].CalculatedPrice)
	}
}
