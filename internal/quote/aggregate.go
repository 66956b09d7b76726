package quote

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/pricing"
)

// ItemTotal is basePrice × quantity plus every counted processing price.
// Processing prices are already quantity-scaled and are summed flat.
func ItemTotal(it Item) decimal.Decimal {
	total := it.BasePrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
	for _, p := range it.Applied() {
		if p.Counted() {
			total = total.Add(p.Price())
		}
	}
	return pricing.RoundCents(total)
}

// Recalculate derives every computed field of q from its items and discount
// inputs. It does not modify q; recalculating its own output is a no-op.
func Recalculate(q Quote) Quote {
	out := q.Clone()
	out.Warnings = nil
	out.HasPendingOptions = false

	subtotal := decimal.Zero
	for i := range out.Items {
		it := &out.Items[i]
		it.TotalPrice = ItemTotal(*it)
		subtotal = subtotal.Add(it.TotalPrice)
		if it.HasPending() {
			out.HasPendingOptions = true
		}
		if _, ok := out.Room(it.RoomID); !ok {
			out.Warnings = append(out.Warnings, fmt.Sprintf("item %s references missing room %s", it.ID, it.RoomID))
		}
	}

	out.Subtotal = pricing.RoundCents(subtotal)
	out.CustomerDiscountAmount = pricing.Percent(out.Subtotal, out.CustomerDiscount)
	out.TotalDiscount = out.CustomerDiscountAmount.Add(pricing.RoundCents(out.OrderDiscount))

	final := out.Subtotal.Sub(out.TotalDiscount)
	if final.IsNegative() {
		out.Warnings = append(out.Warnings, fmt.Sprintf("discounts of %s exceed subtotal of %s; final total clamped to 0", out.TotalDiscount.StringFixed(2), out.Subtotal.StringFixed(2)))
		final = decimal.Zero
	}
	out.FinalTotal = final
	out.RequiresApproval = out.FinalTotal.GreaterThan(out.ApprovalThreshold)

	return out
}
