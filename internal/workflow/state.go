package workflow

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/quote"
)

var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrUnknownProcessing = errors.New("unknown processing")
	ErrUnknownRoom       = errors.New("unknown room")
	ErrUnknownItem       = errors.New("unknown item")
	ErrUnknownModel      = errors.New("unknown model")
	ErrUnknownCustomer   = errors.New("unknown customer")
	ErrNoCustomer        = errors.New("no customer selected")
	ErrNoQuote           = errors.New("quote needs a customer and at least one room")
	ErrInheritedLocked   = errors.New("inherited processings are managed by the room")
	ErrPendingOptions    = errors.New("quote has processings waiting for options")
	ErrModelMismatch     = errors.New("product does not belong to the room's front model")
	ErrNegativeDiscount  = errors.New("order discount cannot be negative")
)

// State is everything a rep has entered for one quote. Transitions never
// modify a State in place; each returns a new one.
type State struct {
	CustomerID    string          `json:"customerId,omitempty"`
	Rooms         []quote.Room    `json:"rooms"`
	Items         []quote.Item    `json:"items"`
	OrderDiscount decimal.Decimal `json:"orderDiscount"`
	Notes         string          `json:"notes,omitempty"`

	QuoteID     string       `json:"quoteId,omitempty"`
	QuoteNumber string       `json:"quoteNumber,omitempty"`
	Status      quote.Status `json:"status,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	SavedAt     *time.Time   `json:"savedAt,omitempty"`

	// Quote is the materialized, recalculated quote. It is nil until a
	// customer and at least one room exist.
	Quote *quote.Quote `json:"quote,omitempty"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	rooms := make([]quote.Room, len(s.Rooms))
	for i, r := range s.Rooms {
		rooms[i] = r.Clone()
	}
	items := make([]quote.Item, len(s.Items))
	for i, it := range s.Items {
		items[i] = it.Clone()
	}
	s.Rooms = rooms
	s.Items = items
	if s.SavedAt != nil {
		at := *s.SavedAt
		s.SavedAt = &at
	}
	if s.Quote != nil {
		q := s.Quote.Clone()
		s.Quote = &q
	}
	return s
}

func (s State) roomIndex(id string) int {
	return slices.IndexFunc(s.Rooms, func(r quote.Room) bool { return r.ID == id })
}

func (s State) itemIndex(id string) int {
	return slices.IndexFunc(s.Items, func(it quote.Item) bool { return it.ID == id })
}
