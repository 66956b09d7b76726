package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

// Input represents what a processing is priced against.
type Input struct {
	Processing catalog.Processing
	Product    catalog.Product
	Quantity   int
	// Dimensions overrides the product dimensions when set.
	Dimensions *catalog.Dimensions
	Options    catalog.OptionValues
}

// Breakdown contains the intermediate values of the processing price.
type Breakdown struct {
	Base            decimal.Decimal
	Metric          float64
	OptionModifiers decimal.Decimal
}

// Result groups the full pricing output.
type Result struct {
	Breakdown Breakdown
	Total     decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Percent returns p percent of v, rounded to cents.
func Percent(v, p decimal.Decimal) decimal.Decimal {
	return RoundCents(v.Mul(p).Div(hundred))
}

// Calculate computes the price of applying in.Processing to in.Quantity units.
// It performs no validation: missing options price as zero and missing
// dimensions measure as zero.
func Calculate(in Input) Result {
	proc := in.Processing
	qty := decimal.NewFromInt(int64(in.Quantity))

	modifiers := decimal.Zero
	for _, opt := range proc.Options {
		v, ok := in.Options[opt.ID]
		if !ok {
			continue
		}
		modifiers = modifiers.Add(opt.Modifier(v))
	}
	modifiers = modifiers.Mul(qty)

	dims := in.Product.Dimensions
	if in.Dimensions != nil {
		dims = in.Dimensions
	}

	var (
		base   decimal.Decimal
		metric float64
	)
	switch proc.PricingType {
	case catalog.PerUnit:
		base = proc.Price.Mul(qty)
	case catalog.Percentage:
		base = in.Product.BasePrice.Mul(qty).Mul(proc.Price)
	case catalog.PerDimension:
		metric = Metric(proc.Metric(), dims)
		base = decimal.NewFromFloat(metric).Mul(proc.Price)
	default:
		base = decimal.Zero
	}

	return Result{
		Breakdown: Breakdown{
			Base:            base,
			Metric:          metric,
			OptionModifiers: modifiers,
		},
		Total: RoundCents(base.Add(modifiers)),
	}
}

// CalculateProcessingPrice is the single-number form of Calculate.
func CalculateProcessingPrice(proc catalog.Processing, product catalog.Product, quantity int, values catalog.OptionValues) decimal.Decimal {
	return Calculate(Input{
		Processing: proc,
		Product:    product,
		Quantity:   quantity,
		Options:    values,
	}).Total
}

// Metric measures dims for per_dimension pricing. Nil dimensions measure zero.
func Metric(m catalog.DimensionMetric, dims *catalog.Dimensions) float64 {
	if dims == nil {
		return 0
	}
	switch m {
	case catalog.MetricWidth:
		return dims.Width
	case catalog.MetricPerimeter:
		return 2 * (dims.Width + dims.Height)
	default:
		return dims.Width + dims.Height + dims.Depth
	}
}
