package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

func mustEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func lookup(t *testing.T, c *catalog.Catalog, productID, processingID string) (catalog.Product, catalog.Processing) {
	t.Helper()
	product, ok := c.Product(productID)
	if !ok {
		t.Fatalf("unknown product %s", productID)
	}
	proc, ok := c.Processing(processingID)
	if !ok {
		t.Fatalf("unknown processing %s", processingID)
	}
	return product, proc
}

func TestCalculate_PercentageOfBasePrice(t *testing.T) {
	product, proc := lookup(t, catalog.Default(), "prod_base_24", "proc_stain_dark")

	mustEqual(t, "qty 1", CalculateProcessingPrice(proc, product, 1, nil), "42.75")
	mustEqual(t, "qty 2", CalculateProcessingPrice(proc, product, 2, nil), "85.5")
}

func TestCalculate_PerUnitScalesWithQuantity(t *testing.T) {
	product, proc := lookup(t, catalog.Default(), "prod_base_24", "proc_install_pulls")

	mustEqual(t, "qty 3", CalculateProcessingPrice(proc, product, 3, nil), "36")
	mustEqual(t, "qty 5", CalculateProcessingPrice(proc, product, 5, nil), "60")
}

func TestCalculate_PerUnitOptionModifiers(t *testing.T) {
	product, proc := lookup(t, catalog.Default(), "prod_quartz_top", "proc_sink_cutout")

	undermount := catalog.OptionValues{"opt_sink_mount": catalog.SelectValue{Choice: "undermount"}}
	result := Calculate(Input{Processing: proc, Product: product, Quantity: 2, Options: undermount})

	mustEqual(t, "base", result.Breakdown.Base, "300")
	mustEqual(t, "modifiers", result.Breakdown.OptionModifiers, "150")
	mustEqual(t, "total", result.Total, "450")
}

func TestCalculate_PercentageModifiersAreFlat(t *testing.T) {
	proc := catalog.Processing{
		PricingType: catalog.Percentage,
		Price:       decimal.RequireFromString("0.10"),
		Options: []catalog.ProcessingOption{
			{ID: "sheen", Type: catalog.OptionSelect, Choices: []catalog.OptionChoice{{Value: "gloss", PriceModifier: decimal.NewFromInt(5)}}},
		},
	}
	product := catalog.Product{BasePrice: decimal.NewFromInt(200)}
	values := catalog.OptionValues{"sheen": catalog.SelectValue{Choice: "gloss"}}

	// 200 × 3 × 10% + 5 × 3
	mustEqual(t, "total", CalculateProcessingPrice(proc, product, 3, values), "75")
}

func TestCalculate_PerDimensionMetrics(t *testing.T) {
	c := catalog.Default()

	top, bullnose := lookup(t, c, "prod_quartz_top", "proc_edge_bullnose")
	// 2 × (96 + 25.5) × 2.5
	mustEqual(t, "perimeter", CalculateProcessingPrice(bullnose, top, 1, nil), "607.5")

	base, led := lookup(t, c, "prod_base_24", "proc_led_strip")
	// 24 × 3.5
	mustEqual(t, "width", CalculateProcessingPrice(led, base, 1, nil), "84")

	sum := catalog.Processing{PricingType: catalog.PerDimension, Category: "fabrication", Price: decimal.NewFromInt(2)}
	// (24 + 34.5 + 24) × 2
	mustEqual(t, "linear sum", CalculateProcessingPrice(sum, base, 1, nil), "165")
}

func TestCalculate_PerDimensionDoesNotScaleWithQuantity(t *testing.T) {
	top, bullnose := lookup(t, catalog.Default(), "prod_quartz_top", "proc_edge_bullnose")

	one := CalculateProcessingPrice(bullnose, top, 1, nil)
	four := CalculateProcessingPrice(bullnose, top, 4, nil)
	if !one.Equal(four) {
		t.Fatalf("per_dimension price changed with quantity: %s vs %s", one, four)
	}
}

func TestCalculate_MissingDimensionsPriceZero(t *testing.T) {
	_, bullnose := lookup(t, catalog.Default(), "prod_quartz_top", "proc_edge_bullnose")
	product := catalog.Product{Category: catalog.CategoryCountertop}

	mustEqual(t, "no dimensions", CalculateProcessingPrice(bullnose, product, 1, nil), "0")
}

func TestCalculate_DimensionOverride(t *testing.T) {
	top, bullnose := lookup(t, catalog.Default(), "prod_quartz_top", "proc_edge_bullnose")

	result := Calculate(Input{
		Processing: bullnose,
		Product:    top,
		Quantity:   1,
		Dimensions: &catalog.Dimensions{Width: 50, Height: 25},
	})
	mustEqual(t, "override", result.Total, "375")
	if result.Breakdown.Metric != 150 {
		t.Fatalf("metric = %v, want 150", result.Breakdown.Metric)
	}
}

func TestCalculate_RoundsHalfUpToCents(t *testing.T) {
	proc := catalog.Processing{PricingType: catalog.Percentage, Price: decimal.RequireFromString("0.125")}
	product := catalog.Product{BasePrice: decimal.RequireFromString("0.9")}

	// 0.9 × 0.125 = 0.1125
	mustEqual(t, "rounded", CalculateProcessingPrice(proc, product, 1, nil), "0.11")
	mustEqual(t, "percent", Percent(decimal.RequireFromString("339.75"), decimal.NewFromInt(3)), "10.19")
	mustEqual(t, "half up", RoundCents(decimal.RequireFromString("0.125")), "0.13")
}
