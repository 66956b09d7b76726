package workflow

import (
	"github.com/Simplici0/cabinet-cpq/internal/quote"
)

// finish runs after every transition: it drops items that no longer fit
// their room, refreshes dependency suggestions and rebuilds the quote.
func (e *Engine) finish(s State) State {
	s.Items = e.cleanup(s)
	e.suggest(s.Items)
	s.Quote = e.materialize(&s)
	return s
}

// cleanup keeps the items whose room exists and whose product belongs to
// the room's front model.
func (e *Engine) cleanup(s State) []quote.Item {
	out := make([]quote.Item, 0, len(s.Items))
	for _, it := range s.Items {
		idx := s.roomIndex(it.RoomID)
		if idx < 0 {
			continue
		}
		if product, ok := e.catalog.Product(it.ProductID); ok && !fitsModel(product, s.Rooms[idx]) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// suggest lists, per item, the product dependencies not yet covered by
// items in the same room.
func (e *Engine) suggest(items []quote.Item) {
	for i := range items {
		it := &items[i]
		it.Suggestions = nil
		for _, dep := range e.catalog.DependenciesFor(it.ProductID) {
			need := dep.RequiredQuantity(it.Quantity)
			have := 0
			for _, other := range items {
				if other.RoomID == it.RoomID && other.ProductID == dep.RequiredProductID {
					have += other.Quantity
				}
			}
			if have >= need {
				continue
			}
			it.Suggestions = append(it.Suggestions, quote.Suggestion{
				DependencyID: dep.ID,
				ProductID:    dep.RequiredProductID,
				Quantity:     need - have,
				IsAutomatic:  dep.IsAutomatic,
				Description:  dep.Description,
			})
		}
	}
}

// materialize builds the recalculated quote once a customer and a room
// exist. The quote id and creation time are assigned on first build.
func (e *Engine) materialize(s *State) *quote.Quote {
	if s.CustomerID == "" || len(s.Rooms) == 0 {
		return nil
	}
	customer, ok := e.catalog.Customer(s.CustomerID)
	if !ok {
		return nil
	}
	if s.QuoteID == "" {
		s.QuoteID = e.newID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = e.now()
	}
	if s.Status == "" {
		s.Status = quote.StatusDraft
	}

	q := quote.Quote{
		ID:                s.QuoteID,
		QuoteNumber:       s.QuoteNumber,
		CustomerID:        s.CustomerID,
		Rooms:             s.Rooms,
		Items:             s.Items,
		CustomerDiscount:  customer.DiscountPercent,
		OrderDiscount:     s.OrderDiscount,
		Status:            s.Status,
		CreatedAt:         s.CreatedAt,
		ExpiresAt:         s.CreatedAt.AddDate(0, 0, e.validityDays),
		ApprovalThreshold: e.threshold,
		SavedAt:           s.SavedAt,
		Notes:             s.Notes,
	}
	if contract, ok := e.catalog.Contract(customer.ContractID); ok && !e.now().After(contract.ValidUntil) {
		q.ContractDiscount = contract.DiscountPercent
	}

	out := quote.Recalculate(q)
	// Recalculate returns a deep copy; keep the state's items in sync with
	// the derived totals.
	s.Items = out.Clone().Items
	return &out
}
