package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/inheritance"
	"github.com/Simplici0/cabinet-cpq/internal/pricing"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
	"github.com/Simplici0/cabinet-cpq/internal/rules"
)

const (
	DefaultApprovalThreshold = 10000
	DefaultValidityDays      = 30
)

// Engine holds the catalog and engines every transition needs.
type Engine struct {
	catalog      *catalog.Catalog
	rules        *rules.Engine
	inherit      *inheritance.Engine
	now          func() time.Time
	newID        func() string
	threshold    decimal.Decimal
	validityDays int
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func WithApprovalThreshold(v decimal.Decimal) Option {
	return func(e *Engine) { e.threshold = v }
}

func WithValidityDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.validityDays = days
		}
	}
}

func New(c *catalog.Catalog, opts ...Option) *Engine {
	r := rules.New(c)
	e := &Engine{
		catalog:      c,
		rules:        r,
		inherit:      inheritance.New(c, r),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		threshold:    decimal.NewFromInt(DefaultApprovalThreshold),
		validityDays: DefaultValidityDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }
func (e *Engine) Rules() *rules.Engine      { return e.rules }

// SelectCustomer starts a fresh quote for customerID. Reselecting the current
// customer is a no-op.
func (e *Engine) SelectCustomer(s State, customerID string) (State, error) {
	if _, ok := e.catalog.Customer(customerID); !ok {
		return s, fmt.Errorf("select customer %s: %w", customerID, ErrUnknownCustomer)
	}
	if s.CustomerID == customerID {
		return s, nil
	}
	return e.finish(State{CustomerID: customerID}), nil
}

type RoomInput struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	FrontModelID string              `json:"frontModelId"`
	Dimensions   *catalog.Dimensions `json:"dimensions,omitempty"`
}

// AddRoom appends a room with no activated processings. The new room is the
// last one in the returned state.
func (e *Engine) AddRoom(s State, in RoomInput) (State, error) {
	if s.CustomerID == "" {
		return s, fmt.Errorf("add room: %w", ErrNoCustomer)
	}
	if _, ok := e.catalog.Model(in.FrontModelID); !ok {
		return s, fmt.Errorf("add room: model %s: %w", in.FrontModelID, ErrUnknownModel)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = fmt.Sprintf("Room %d", len(s.Rooms)+1)
	}

	next := s.Clone()
	room := quote.Room{
		ID:                   e.newID(),
		Name:                 name,
		Description:          in.Description,
		FrontModelID:         in.FrontModelID,
		ActivatedProcessings: []string{},
	}
	if in.Dimensions != nil {
		dims := *in.Dimensions
		room.Dimensions = &dims
	}
	next.Rooms = append(next.Rooms, room)
	return e.finish(next), nil
}

// RoomPatch changes the descriptive fields of a room. Nil fields are left alone.
type RoomPatch struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Dimensions  *catalog.Dimensions `json:"dimensions,omitempty"`
}

func (e *Engine) UpdateRoom(s State, roomID string, patch RoomPatch) (State, error) {
	idx := s.roomIndex(roomID)
	if idx < 0 {
		return s, fmt.Errorf("update room %s: %w", roomID, ErrUnknownRoom)
	}
	next := s.Clone()
	room := &next.Rooms[idx]
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		room.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		room.Description = *patch.Description
	}
	if patch.Dimensions != nil {
		dims := *patch.Dimensions
		room.Dimensions = &dims
	}
	return e.finish(next), nil
}

// SetRoomModel switches the room's front model. Items whose product belongs
// to another model are dropped; if that leaves the quote without items it is
// regenerated under a new id.
func (e *Engine) SetRoomModel(s State, roomID, modelID string) (State, error) {
	idx := s.roomIndex(roomID)
	if idx < 0 {
		return s, fmt.Errorf("set room model %s: %w", roomID, ErrUnknownRoom)
	}
	if _, ok := e.catalog.Model(modelID); !ok {
		return s, fmt.Errorf("set room model %s: %w", modelID, ErrUnknownModel)
	}
	next := s.Clone()
	next.Rooms[idx].FrontModelID = modelID

	hadItems := len(next.Items) > 0
	next.Items = e.cleanup(next)
	if hadItems && len(next.Items) == 0 {
		next.QuoteID = ""
		next.QuoteNumber = ""
		next.Status = ""
		next.CreatedAt = time.Time{}
		next.SavedAt = nil
	}
	return e.finish(next), nil
}

// ToggleRoomProcessing activates or deactivates processingID on the room and
// resyncs the inherited entries of every item in it. Activation also
// activates the processings it requires. Deactivating a processing that the
// room or one of its items still requires fails with a *rules.RequirementError.
func (e *Engine) ToggleRoomProcessing(s State, roomID, processingID string) (State, error) {
	idx := s.roomIndex(roomID)
	if idx < 0 {
		return s, fmt.Errorf("toggle room processing: room %s: %w", roomID, ErrUnknownRoom)
	}
	proc, ok := e.catalog.Processing(processingID)
	if !ok {
		return s, fmt.Errorf("toggle room processing: %s: %w", processingID, ErrUnknownProcessing)
	}

	next := s.Clone()
	room := &next.Rooms[idx]
	pos := slices.Index(room.ActivatedProcessings, processingID)
	if pos >= 0 {
		room.ActivatedProcessings = slices.Delete(room.ActivatedProcessings, pos, pos+1)
		if err := e.rules.CanRemove(room.ActivatedProcessings, processingID); err != nil {
			return s, fmt.Errorf("toggle room processing: %w", err)
		}
	} else {
		if err := e.rules.RoomConflict(room.ActivatedProcessings, processingID); err != nil {
			return s, fmt.Errorf("toggle room processing: %w", err)
		}
		required, err := e.rules.RoomRequirements(room.ActivatedProcessings, proc)
		if err != nil {
			return s, fmt.Errorf("toggle room processing: %w", err)
		}
		room.ActivatedProcessings = append(room.ActivatedProcessings, processingID)
		for _, p := range required {
			room.ActivatedProcessings = append(room.ActivatedProcessings, p.ID)
		}
	}

	now := e.now()
	for i := range next.Items {
		if next.Items[i].RoomID != roomID {
			continue
		}
		product, ok := e.catalog.Product(next.Items[i].ProductID)
		if !ok {
			continue
		}
		next.Items[i] = e.inherit.Sync(*room, next.Items[i], product, now)
		if pos < 0 {
			continue
		}
		if err := e.rules.CanRemove(next.Items[i].AppliedIDs(), processingID); err != nil {
			return s, fmt.Errorf("toggle room processing: item %s: %w", next.Items[i].ID, err)
		}
	}
	return e.finish(next), nil
}

// RemoveRoom removes the room and every item placed in it.
func (e *Engine) RemoveRoom(s State, roomID string) (State, error) {
	idx := s.roomIndex(roomID)
	if idx < 0 {
		return s, fmt.Errorf("remove room %s: %w", roomID, ErrUnknownRoom)
	}
	next := s.Clone()
	next.Rooms = slices.Delete(next.Rooms, idx, idx+1)
	return e.finish(next), nil
}

type ItemInput struct {
	RoomID           string              `json:"roomId"`
	ProductID        string              `json:"productId"`
	Quantity         int                 `json:"quantity"`
	CustomDimensions *catalog.Dimensions `json:"customDimensions,omitempty"`
}

// AddItem places a product in a room. The item inherits the room's activated
// processings. The new item is the last one in the returned state.
func (e *Engine) AddItem(s State, in ItemInput) (State, error) {
	idx := s.roomIndex(in.RoomID)
	if idx < 0 {
		return s, fmt.Errorf("add item: room %s: %w", in.RoomID, ErrUnknownRoom)
	}
	product, ok := e.catalog.Product(in.ProductID)
	if !ok {
		return s, fmt.Errorf("add item: product %s: %w", in.ProductID, ErrUnknownProduct)
	}
	room := s.Rooms[idx]
	if !fitsModel(product, room) {
		return s, fmt.Errorf("add item: %s in %s: %w", product.ID, room.FrontModelID, ErrModelMismatch)
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	next := s.Clone()
	it := quote.Item{
		ID:        e.newID(),
		ProductID: product.ID,
		RoomID:    room.ID,
		Quantity:  qty,
		BasePrice: product.BasePrice,
	}
	if in.CustomDimensions != nil {
		dims := *in.CustomDimensions
		it.CustomDimensions = &dims
	}
	it = e.inherit.Sync(room, it, product, e.now())
	next.Items = append(next.Items, it)
	return e.finish(next), nil
}

// UpdateQuantity sets the item's quantity, resyncs its inherited entries and
// reprices its processings.
// A quantity of zero or less removes the item.
func (e *Engine) UpdateQuantity(s State, itemID string, qty int) (State, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return s, fmt.Errorf("update quantity %s: %w", itemID, ErrUnknownItem)
	}
	if qty <= 0 {
		return e.RemoveItem(s, itemID)
	}

	product, ok := e.catalog.Product(s.Items[idx].ProductID)
	if !ok {
		return s, fmt.Errorf("update quantity %s: product %s: %w", itemID, s.Items[idx].ProductID, ErrUnknownProduct)
	}

	next := s.Clone()
	it := next.Items[idx]
	it.Quantity = qty
	it = e.resync(next, it, product)
	priced := withDimensions(product, it.CustomDimensions)
	for i := range it.Manual {
		e.priceManual(&it.Manual[i], priced, qty)
	}
	next.Items[idx] = it
	return e.finish(next), nil
}

// MoveItem moves an item to another room. Its inherited entries are
// recomputed from the target room; manual entries move with it.
func (e *Engine) MoveItem(s State, itemID, roomID string) (State, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return s, fmt.Errorf("move item %s: %w", itemID, ErrUnknownItem)
	}
	rIdx := s.roomIndex(roomID)
	if rIdx < 0 {
		return s, fmt.Errorf("move item %s: room %s: %w", itemID, roomID, ErrUnknownRoom)
	}
	room := s.Rooms[rIdx]
	product, ok := e.catalog.Product(s.Items[idx].ProductID)
	if !ok {
		return s, fmt.Errorf("move item %s: product %s: %w", itemID, s.Items[idx].ProductID, ErrUnknownProduct)
	}
	if !fitsModel(product, room) {
		return s, fmt.Errorf("move item %s to %s: %w", itemID, roomID, ErrModelMismatch)
	}
	if s.Items[idx].RoomID == roomID {
		return s, nil
	}

	next := s.Clone()
	it := next.Items[idx]
	it.RoomID = roomID
	it.Inherited = nil
	next.Items[idx] = e.inherit.Sync(room, it, product, e.now())
	return e.finish(next), nil
}

func (e *Engine) RemoveItem(s State, itemID string) (State, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return s, fmt.Errorf("remove item %s: %w", itemID, ErrUnknownItem)
	}
	next := s.Clone()
	next.Items = slices.Delete(next.Items, idx, idx+1)
	return e.finish(next), nil
}

// ApplyProcessing adds a manual processing to an item. Missing required
// processings are added alongside it when they can be; otherwise the call
// fails with a *rules.RequirementError. Without enough option values the
// entry is added as pending and carries no price until ResolveOptions.
func (e *Engine) ApplyProcessing(s State, itemID, processingID string, values catalog.OptionValues) (State, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return s, fmt.Errorf("apply processing: item %s: %w", itemID, ErrUnknownItem)
	}
	proc, ok := e.catalog.Processing(processingID)
	if !ok {
		return s, fmt.Errorf("apply processing %s: %w", processingID, ErrUnknownProcessing)
	}
	product, ok := e.catalog.Product(s.Items[idx].ProductID)
	if !ok {
		return s, fmt.Errorf("apply processing: product %s: %w", s.Items[idx].ProductID, ErrUnknownProduct)
	}

	applied := s.Items[idx].AppliedIDs()
	if err := e.rules.CanApply(product, applied, proc); err != nil {
		return s, fmt.Errorf("apply processing: %w", err)
	}
	required, err := e.rules.Requirements(product, applied, proc)
	if err != nil {
		return s, fmt.Errorf("apply processing: %w", err)
	}

	next := s.Clone()
	it := &next.Items[idx]
	priced := withDimensions(product, it.CustomDimensions)
	now := e.now()
	for _, p := range append([]catalog.Processing{proc}, required...) {
		entry := quote.ManualProcessing{Processing: p.ID, AppliedDate: now}
		entry.Options, _ = rules.Defaults(p)
		if p.ID == proc.ID {
			for k, v := range values {
				entry.Options[k] = v
			}
		}
		e.priceManual(&entry, priced, it.Quantity)
		it.Manual = append(it.Manual, entry)
	}
	return e.finish(next), nil
}

// ResolveOptions merges option values into a manual entry and reprices it.
// The entry stays pending while required options are still missing.
func (e *Engine) ResolveOptions(s State, itemID, processingID string, values catalog.OptionValues) (State, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return s, fmt.Errorf("resolve options: item %s: %w", itemID, ErrUnknownItem)
	}
	pos := s.Items[idx].ManualIndex(processingID)
	if pos < 0 {
		if s.Items[idx].HasInherited(processingID) {
			return s, fmt.Errorf("resolve options %s: %w", processingID, ErrInheritedLocked)
		}
		return s, fmt.Errorf("resolve options: %s on %s: %w", processingID, itemID, ErrUnknownProcessing)
	}
	product, ok := e.catalog.Product(s.Items[idx].ProductID)
	if !ok {
		return s, fmt.Errorf("resolve options: product %s: %w", s.Items[idx].ProductID, ErrUnknownProduct)
	}

	next := s.Clone()
	it := &next.Items[idx]
	entry := &it.Manual[pos]
	if entry.Options == nil {
		entry.Options = make(catalog.OptionValues)
	}
	for k, v := range values {
		entry.Options[k] = v
	}
	e.priceManual(entry, withDimensions(product, it.CustomDimensions), it.Quantity)
	return e.finish(next), nil
}

// RemoveProcessing removes a manual entry and lets the item inherit what the
// entry was blocking. Inherited entries can only be removed by deactivating
// them on the room; an entry another applied processing requires stays.
func (e *Engine) RemoveProcessing(s State, itemID, processingID string) (State, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return s, fmt.Errorf("remove processing: item %s: %w", itemID, ErrUnknownItem)
	}
	pos := s.Items[idx].ManualIndex(processingID)
	if pos < 0 {
		if s.Items[idx].HasInherited(processingID) {
			return s, fmt.Errorf("remove processing %s: %w", processingID, ErrInheritedLocked)
		}
		return s, fmt.Errorf("remove processing: %s on %s: %w", processingID, itemID, ErrUnknownProcessing)
	}
	product, ok := e.catalog.Product(s.Items[idx].ProductID)
	if !ok {
		return s, fmt.Errorf("remove processing: product %s: %w", s.Items[idx].ProductID, ErrUnknownProduct)
	}

	next := s.Clone()
	it := next.Items[idx]
	it.Manual = slices.Delete(it.Manual, pos, pos+1)
	it = e.resync(next, it, product)
	if err := e.rules.CanRemove(it.AppliedIDs(), processingID); err != nil {
		return s, fmt.Errorf("remove processing: %w", err)
	}
	next.Items[idx] = it
	return e.finish(next), nil
}

// resync recomputes the inherited entries of it against its room.
func (e *Engine) resync(s State, it quote.Item, product catalog.Product) quote.Item {
	r := s.roomIndex(it.RoomID)
	if r < 0 {
		return it
	}
	return e.inherit.Sync(s.Rooms[r], it, product, e.now())
}

func (e *Engine) SetOrderDiscount(s State, amount decimal.Decimal) (State, error) {
	if amount.IsNegative() {
		return s, fmt.Errorf("set order discount %s: %w", amount, ErrNegativeDiscount)
	}
	next := s.Clone()
	next.OrderDiscount = pricing.RoundCents(amount)
	return e.finish(next), nil
}

func (e *Engine) SetNotes(s State, notes string) (State, error) {
	next := s.Clone()
	next.Notes = notes
	return e.finish(next), nil
}

// Save stamps the quote with a number, save time and status and returns an
// independent copy of it for persistence. Quotes already past approval
// (approved, sent, accepted, rejected) keep their status.
func (e *Engine) Save(s State) (State, quote.Quote, error) {
	if s.Quote == nil {
		return s, quote.Quote{}, fmt.Errorf("save: %w", ErrNoQuote)
	}
	if s.Quote.HasPendingOptions {
		return s, quote.Quote{}, fmt.Errorf("save %s: %w", s.Quote.ID, ErrPendingOptions)
	}

	next := s.Clone()
	now := e.now()
	if next.QuoteNumber == "" {
		next.QuoteNumber = e.quoteNumber(now)
	}
	next.SavedAt = &now
	switch next.Status {
	case "", quote.StatusDraft, quote.StatusPendingApproval:
		next.Status = quote.StatusDraft
		if next.Quote.RequiresApproval {
			next.Status = quote.StatusPendingApproval
		}
	}
	next = e.finish(next)
	return next, next.Quote.Clone(), nil
}

func (e *Engine) quoteNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(e.newID(), "-", ""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("Q-%s-%s", at.Format("20060102"), suffix)
}

// LoadQuote rebuilds a State from a saved quote. Stored prices are kept;
// totals are recalculated.
func (e *Engine) LoadQuote(q quote.Quote) (State, error) {
	if _, ok := e.catalog.Customer(q.CustomerID); !ok {
		return State{}, fmt.Errorf("load quote %s: customer %s: %w", q.ID, q.CustomerID, ErrUnknownCustomer)
	}
	c := q.Clone()
	s := State{
		CustomerID:    c.CustomerID,
		Rooms:         c.Rooms,
		Items:         c.Items,
		OrderDiscount: c.OrderDiscount,
		Notes:         c.Notes,
		QuoteID:       c.ID,
		QuoteNumber:   c.QuoteNumber,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		SavedAt:       c.SavedAt,
	}
	return e.finish(s), nil
}

// AvailableProcessings lists what can still be applied to an item.
func (e *Engine) AvailableProcessings(s State, itemID string) ([]catalog.Processing, error) {
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("available processings: item %s: %w", itemID, ErrUnknownItem)
	}
	product, ok := e.catalog.Product(s.Items[idx].ProductID)
	if !ok {
		return nil, fmt.Errorf("available processings: product %s: %w", s.Items[idx].ProductID, ErrUnknownProduct)
	}
	return e.rules.Available(product, s.Items[idx].AppliedIDs()), nil
}

func (e *Engine) priceManual(entry *quote.ManualProcessing, product catalog.Product, qty int) {
	proc, ok := e.catalog.Processing(entry.Processing)
	if !ok {
		return
	}
	if rules.NeedsOptions(proc, entry.Options) {
		entry.Pending = true
		entry.CalculatedPrice = decimal.Zero
		return
	}
	entry.Pending = false
	entry.CalculatedPrice = pricing.CalculateProcessingPrice(proc, product, qty, entry.Options)
}

func withDimensions(p catalog.Product, dims *catalog.Dimensions) catalog.Product {
	if dims != nil {
		p.Dimensions = dims
	}
	return p
}

func fitsModel(p catalog.Product, r quote.Room) bool {
	return p.ModelID == "" || p.ModelID == r.FrontModelID
}
