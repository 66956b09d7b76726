package catalog

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLookupsReportUnknownIDs(t *testing.T) {
	c := Default()

	if _, ok := c.Product("prod_missing"); ok {
		t.Fatalf("expected unknown product lookup to report ok=false")
	}
	if _, ok := c.Processing("proc_missing"); ok {
		t.Fatalf("expected unknown processing lookup to report ok=false")
	}
	p, ok := c.Product("prod_base_24")
	if !ok {
		t.Fatalf("expected prod_base_24 in sample catalog")
	}
	if !p.BasePrice.Equal(decimal.NewFromInt(285)) {
		t.Fatalf("basePrice = %s, want 285", p.BasePrice)
	}
}

func TestNewCopiesInput(t *testing.T) {
	data := Sample()
	c := New(data)
	data.Products[0].Name = "changed"

	p, _ := c.Product(data.Products[0].ID)
	if p.Name == "changed" {
		t.Fatalf("catalog shares product slice with caller")
	}
}

func TestProcessingMetricConvention(t *testing.T) {
	tests := []struct {
		name string
		proc Processing
		want DimensionMetric
	}{
		{"countertop edge uses perimeter", Processing{Category: "countertop_edge"}, MetricPerimeter},
		{"lighting uses width", Processing{Category: "lighting"}, MetricWidth},
		{"other categories sum dimensions", Processing{Category: "fabrication"}, MetricLinearSum},
		{"explicit metric wins", Processing{Category: "countertop_edge", DimensionMetric: MetricWidth}, MetricWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.proc.Metric(); got != tt.want {
				t.Fatalf("Metric() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDependenciesFor(t *testing.T) {
	c := Default()

	deps := c.DependenciesFor("prod_wall_30")
	if len(deps) != 1 || deps[0].RequiredProductID != "prod_pull_bar" {
		t.Fatalf("unexpected dependencies: %+v", deps)
	}
	if got := deps[0].RequiredQuantity(3); got != 6 {
		t.Fatalf("RequiredQuantity(3) = %d, want 6", got)
	}
	if got := (ProductDependency{}).RequiredQuantity(0); got != 1 {
		t.Fatalf("RequiredQuantity with zero ratio = %d, want 1", got)
	}
}

func TestOptionModifier(t *testing.T) {
	c := Default()
	drawers, _ := c.Processing("proc_drawer_upgrade")
	ext, _ := drawers.Option("opt_full_extension")
	dividers, _ := drawers.Option("opt_dividers")

	if got := ext.Modifier(BooleanValue{Enabled: true}); !got.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("boolean modifier = %s, want 15", got)
	}
	if got := dividers.Modifier(NumberValue{Value: 3}); !got.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("number modifier = %s, want 24", got)
	}
	if got := ext.Modifier(SelectValue{Choice: "x"}); !got.IsZero() {
		t.Fatalf("mismatched kind should not price, got %s", got)
	}
}

func TestEncodeDecodeKeepsOptionValues(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	c, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	drawers, ok := c.Processing("proc_drawer_upgrade")
	if !ok {
		t.Fatalf("decoded catalog lost proc_drawer_upgrade")
	}
	opt, _ := drawers.Option("opt_dividers")
	if _, ok := opt.DefaultValue.(NumberValue); !ok {
		t.Fatalf("default value type = %T, want NumberValue", opt.DefaultValue)
	}
	rule := c.Rules()[len(c.Rules())-1]
	if rule.Actions.InheritFromRoom == nil || *rule.Actions.InheritFromRoom {
		t.Fatalf("inheritFromRoom flag lost: %+v", rule.Actions)
	}
}
