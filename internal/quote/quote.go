package quote

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusSent            Status = "sent"
	StatusAccepted        Status = "accepted"
	StatusRejected        Status = "rejected"
)

// Room groups items under one front model and a set of auto-applied processings.
type Room struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Description          string              `json:"description,omitempty"`
	FrontModelID         string              `json:"frontModelId"`
	ActivatedProcessings []string            `json:"activatedProcessings"`
	Dimensions           *catalog.Dimensions `json:"dimensions,omitempty"`
}

func (r Room) Clone() Room {
	r.ActivatedProcessings = slices.Clone(r.ActivatedProcessings)
	if r.Dimensions != nil {
		dims := *r.Dimensions
		r.Dimensions = &dims
	}
	return r
}

// AppliedProcessing is a processing attached to a quote item.
type AppliedProcessing interface {
	ProcessingID() string
	Price() decimal.Decimal
	Inherited() bool
	AppliedAt() time.Time
	// Counted reports whether the price contributes to totals.
	Counted() bool
}

// InheritedProcessing is propagated from the item's room. It only goes away
// with the room activation, the item's room, or the item itself.
type InheritedProcessing struct {
	Processing      string
	CalculatedPrice decimal.Decimal
	AppliedDate     time.Time
}

func (p InheritedProcessing) ProcessingID() string   { return p.Processing }
func (p InheritedProcessing) Price() decimal.Decimal { return p.CalculatedPrice }
func (p InheritedProcessing) Inherited() bool        { return true }
func (p InheritedProcessing) AppliedAt() time.Time   { return p.AppliedDate }
func (p InheritedProcessing) Counted() bool          { return true }

// ManualProcessing was added to the item directly. A pending entry still
// waits for required option values and carries no price.
type ManualProcessing struct {
	Processing      string
	CalculatedPrice decimal.Decimal
	Options         catalog.OptionValues
	Pending         bool
	AppliedDate     time.Time
}

func (p ManualProcessing) ProcessingID() string   { return p.Processing }
func (p ManualProcessing) Price() decimal.Decimal { return p.CalculatedPrice }
func (p ManualProcessing) Inherited() bool        { return false }
func (p ManualProcessing) AppliedAt() time.Time   { return p.AppliedDate }
func (p ManualProcessing) Counted() bool          { return !p.Pending }

// Suggestion is a product dependency the item's product declares.
type Suggestion struct {
	DependencyID string `json:"dependencyId"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	IsAutomatic  bool   `json:"isAutomatic"`
	Description  string `json:"description,omitempty"`
}

// Item is a quote line: one product in one room.
type Item struct {
	ID               string
	ProductID        string
	RoomID           string
	Quantity         int
	CustomDimensions *catalog.Dimensions
	Inherited        []InheritedProcessing
	Manual           []ManualProcessing
	BasePrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	Suggestions      []Suggestion
}

// Applied lists inherited entries first, then manual ones.
func (it Item) Applied() []AppliedProcessing {
	out := make([]AppliedProcessing, 0, len(it.Inherited)+len(it.Manual))
	for _, p := range it.Inherited {
		out = append(out, p)
	}
	for _, p := range it.Manual {
		out = append(out, p)
	}
	return out
}

// AppliedIDs lists the processing ids on the item.
func (it Item) AppliedIDs() []string {
	out := make([]string, 0, len(it.Inherited)+len(it.Manual))
	for _, p := range it.Applied() {
		out = append(out, p.ProcessingID())
	}
	return out
}

// ManualIndex returns the position of a manual entry for processingID, or -1.
func (it Item) ManualIndex(processingID string) int {
	return slices.IndexFunc(it.Manual, func(p ManualProcessing) bool { return p.Processing == processingID })
}

// HasInherited reports whether processingID reached the item through its room.
func (it Item) HasInherited(processingID string) bool {
	return slices.ContainsFunc(it.Inherited, func(p InheritedProcessing) bool { return p.Processing == processingID })
}

// HasPending reports whether any manual entry waits for options.
func (it Item) HasPending() bool {
	return slices.ContainsFunc(it.Manual, func(p ManualProcessing) bool { return p.Pending })
}

func (it Item) Clone() Item {
	if it.CustomDimensions != nil {
		dims := *it.CustomDimensions
		it.CustomDimensions = &dims
	}
	it.Inherited = slices.Clone(it.Inherited)
	it.Manual = slices.Clone(it.Manual)
	for i := range it.Manual {
		it.Manual[i].Options = it.Manual[i].Options.Clone()
	}
	it.Suggestions = slices.Clone(it.Suggestions)
	return it
}

type appliedJSON struct {
	ProcessingID    string               `json:"processingId"`
	CalculatedPrice decimal.Decimal      `json:"calculatedPrice"`
	IsInherited     bool                 `json:"isInherited"`
	RequiresOptions bool                 `json:"requiresOptions,omitempty"`
	SelectedOptions catalog.OptionValues `json:"selectedOptions,omitempty"`
	AppliedDate     time.Time            `json:"appliedDate"`
}

type itemJSON struct {
	ID                 string              `json:"id"`
	ProductID          string              `json:"productId"`
	RoomID             string              `json:"roomId"`
	Quantity           int                 `json:"quantity"`
	CustomDimensions   *catalog.Dimensions `json:"customDimensions,omitempty"`
	AppliedProcessings []appliedJSON       `json:"appliedProcessings"`
	BasePrice          decimal.Decimal     `json:"basePrice"`
	TotalPrice         decimal.Decimal     `json:"totalPrice"`
	Suggestions        []Suggestion        `json:"suggestions,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:                 it.ID,
		ProductID:          it.ProductID,
		RoomID:             it.RoomID,
		Quantity:           it.Quantity,
		CustomDimensions:   it.CustomDimensions,
		AppliedProcessings: make([]appliedJSON, 0, len(it.Inherited)+len(it.Manual)),
		BasePrice:          it.BasePrice,
		TotalPrice:         it.TotalPrice,
		Suggestions:        it.Suggestions,
	}
	for _, p := range it.Inherited {
		out.AppliedProcessings = append(out.AppliedProcessings, appliedJSON{
			ProcessingID:    p.Processing,
			CalculatedPrice: p.CalculatedPrice,
			IsInherited:     true,
			AppliedDate:     p.AppliedDate,
		})
	}
	for _, p := range it.Manual {
		out.AppliedProcessings = append(out.AppliedProcessings, appliedJSON{
			ProcessingID:    p.Processing,
			CalculatedPrice: p.CalculatedPrice,
			RequiresOptions: p.Pending,
			SelectedOptions: p.Options,
			AppliedDate:     p.AppliedDate,
		})
	}
	return json.Marshal(out)
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var in itemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*it = Item{
		ID:               in.ID,
		ProductID:        in.ProductID,
		RoomID:           in.RoomID,
		Quantity:         in.Quantity,
		CustomDimensions: in.CustomDimensions,
		BasePrice:        in.BasePrice,
		TotalPrice:       in.TotalPrice,
		Suggestions:      in.Suggestions,
	}
	for _, p := range in.AppliedProcessings {
		if p.IsInherited {
			it.Inherited = append(it.Inherited, InheritedProcessing{
				Processing:      p.ProcessingID,
				CalculatedPrice: p.CalculatedPrice,
				AppliedDate:     p.AppliedDate,
			})
			continue
		}
		it.Manual = append(it.Manual, ManualProcessing{
			Processing:      p.ProcessingID,
			CalculatedPrice: p.CalculatedPrice,
			Options:         p.SelectedOptions,
			Pending:         p.RequiresOptions,
			AppliedDate:     p.AppliedDate,
		})
	}
	return nil
}

// Quote is the priced collection of rooms and items for one customer.
type Quote struct {
	ID                     string          `json:"id"`
	QuoteNumber            string          `json:"quoteNumber,omitempty"`
	CustomerID             string          `json:"customerId"`
	Rooms                  []Room          `json:"rooms"`
	Items                  []Item          `json:"items"`
	ContractDiscount       decimal.Decimal `json:"contractDiscount"`
	CustomerDiscount       decimal.Decimal `json:"customerDiscount"`
	OrderDiscount          decimal.Decimal `json:"orderDiscount"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	CustomerDiscountAmount decimal.Decimal `json:"customerDiscountAmount"`
	TotalDiscount          decimal.Decimal `json:"totalDiscount"`
	FinalTotal             decimal.Decimal `json:"finalTotal"`
	Status                 Status          `json:"status"`
	CreatedAt              time.Time       `json:"createdAt"`
	ExpiresAt              time.Time       `json:"expiresAt"`
	RequiresApproval       bool            `json:"requiresApproval"`
	ApprovalThreshold      decimal.Decimal `json:"approvalThreshold"`
	HasPendingOptions      bool            `json:"hasPendingOptions"`
	Warnings               []string        `json:"warnings,omitempty"`
	SavedAt                *time.Time      `json:"savedAt,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
}

// Clone returns a deep copy.
func (q Quote) Clone() Quote {
	rooms := make([]Room, len(q.Rooms))
	for i, r := range q.Rooms {
		rooms[i] = r.Clone()
	}
	items := make([]Item, len(q.Items))
	for i, it := range q.Items {
		items[i] = it.Clone()
	}
	q.Rooms = rooms
	q.Items = items
	q.Warnings = slices.Clone(q.Warnings)
	if q.SavedAt != nil {
		at := *q.SavedAt
		q.SavedAt = &at
	}
	return q
}

func (q Quote) Room(id string) (Room, bool) {
	for _, r := range q.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

func (q Quote) Item(id string) (Item, bool) {
	for _, it := range q.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ItemsInRoom lists the items placed in roomID, in quote order.
func (q Quote) ItemsInRoom(roomID string) []Item {
	var out []Item
	for _, it := range q.Items {
		if it.RoomID == roomID {
			out = append(out, it)
		}
	}
	return out
}
