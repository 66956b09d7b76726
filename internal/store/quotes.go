package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/cabinet-cpq/internal/quote"
)

// QuotesKey holds the whole saved-quote list as one JSON array.
const QuotesKey = "savedQuotes"

// QuoteStore reads and writes the saved-quote list. Writes replace the whole
// list and are serialized so concurrent saves do not drop each other.
type QuoteStore struct {
	kv KV

	mu sync.Mutex
}

func NewQuoteStore(kv KV) *QuoteStore {
	return &QuoteStore{kv: kv}
}

// Load returns the saved quotes. A missing, unreadable or corrupt list is
// logged and treated as empty; only a cancelled context is an error.
func (s *QuoteStore) Load(ctx context.Context) ([]quote.Quote, error) {
	raw, found, err := s.kv.Get(ctx, QuotesKey)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("key", QuotesKey).Msg("saved quotes unreadable, starting empty")
		return []quote.Quote{}, nil
	}
	if !found {
		return []quote.Quote{}, nil
	}

	var quotes []quote.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		log.Warn().Err(err).Str("key", QuotesKey).Int("bytes", len(raw)).Msg("saved quotes corrupt, starting empty")
		return []quote.Quote{}, nil
	}
	if quotes == nil {
		quotes = []quote.Quote{}
	}
	return quotes, nil
}

func (s *QuoteStore) Save(ctx context.Context, quotes []quote.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, quotes)
}

func (s *QuoteStore) put(ctx context.Context, quotes []quote.Quote) error {
	if quotes == nil {
		quotes = []quote.Quote{}
	}
	raw, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encode saved quotes: %w", err)
	}
	if err := s.kv.Put(ctx, QuotesKey, raw); err != nil {
		return fmt.Errorf("save quotes: %w", err)
	}
	return nil
}

// SaveQuote replaces any quote with the same id and appends q.
func (s *QuoteStore) SaveQuote(ctx context.Context, q quote.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes, err := s.Load(ctx)
	if err != nil {
		return err
	}
	quotes = slices.DeleteFunc(quotes, func(existing quote.Quote) bool { return existing.ID == q.ID })
	quotes = append(quotes, q.Clone())
	return s.put(ctx, quotes)
}

func (s *QuoteStore) Get(ctx context.Context, id string) (quote.Quote, bool, error) {
	quotes, err := s.Load(ctx)
	if err != nil {
		return quote.Quote{}, false, err
	}
	for _, q := range quotes {
		if q.ID == id || (q.QuoteNumber != "" && q.QuoteNumber == id) {
			return q, true, nil
		}
	}
	return quote.Quote{}, false, nil
}

// Search matches term case-insensitively against quote number, customer id
// and notes. An empty term matches everything. Results are newest first.
func (s *QuoteStore) Search(ctx context.Context, term string) ([]quote.Quote, error) {
	quotes, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]quote.Quote, 0, len(quotes))
	for _, q := range quotes {
		if term == "" ||
			strings.Contains(strings.ToLower(q.QuoteNumber), term) ||
			strings.Contains(strings.ToLower(q.CustomerID), term) ||
			strings.Contains(strings.ToLower(q.Notes), term) {
			out = append(out, q)
		}
	}
	slices.SortStableFunc(out, func(a, b quote.Quote) int {
		return cmp.Compare(savedUnix(b), savedUnix(a))
	})
	return out, nil
}

func savedUnix(q quote.Quote) int64 {
	if q.SavedAt == nil {
		return q.CreatedAt.UnixNano()
	}
	return q.SavedAt.UnixNano()
}
