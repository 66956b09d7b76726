package inheritance

import (
	"time"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/pricing"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
	"github.com/Simplici0/cabinet-cpq/internal/rules"
)

// Engine propagates room-level processings onto the items placed in a room.
type Engine struct {
	catalog *catalog.Catalog
	rules   *rules.Engine
}

func New(c *catalog.Catalog, r *rules.Engine) *Engine {
	return &Engine{catalog: c, rules: r}
}

// Compute returns the inherited entries a new item of product gets in room.
func (e *Engine) Compute(room quote.Room, product catalog.Product, quantity int, now time.Time) []quote.InheritedProcessing {
	return e.sync(room, product, quantity, nil, nil, now)
}

// Sync recomputes the inherited entries of it against room: deactivated
// processings disappear, newly activated ones appear, and surviving entries
// are repriced for the current quantity while keeping their applied date.
func (e *Engine) Sync(room quote.Room, it quote.Item, product catalog.Product, now time.Time) quote.Item {
	out := it.Clone()
	if it.CustomDimensions != nil {
		product.Dimensions = it.CustomDimensions
	}
	out.Inherited = e.sync(room, product, it.Quantity, it.Inherited, it.Manual, now)
	return out
}

func (e *Engine) sync(room quote.Room, product catalog.Product, quantity int, existing []quote.InheritedProcessing, manual []quote.ManualProcessing, now time.Time) []quote.InheritedProcessing {
	if !e.rules.InheritsFromRoom(product) {
		return nil
	}

	applied := make([]string, 0, len(manual)+len(room.ActivatedProcessings))
	for _, m := range manual {
		applied = append(applied, m.Processing)
	}

	var out []quote.InheritedProcessing
	for _, id := range room.ActivatedProcessings {
		proc, ok := e.catalog.Processing(id)
		if !ok || !proc.AppliesTo(product.Category) {
			continue
		}
		if err := e.rules.CanApply(product, applied, proc); err != nil {
			continue
		}
		values, complete := rules.Defaults(proc)
		if !complete {
			continue
		}

		appliedAt := now
		for _, prev := range existing {
			if prev.Processing == id {
				appliedAt = prev.AppliedDate
				break
			}
		}

		out = append(out, quote.InheritedProcessing{
			Processing:      id,
			CalculatedPrice: pricing.Calculate(pricing.Input{Processing: proc, Product: product, Quantity: quantity, Options: values}).Total,
			AppliedDate:     appliedAt,
		})
		applied = append(applied, id)
	}
	return out
}
