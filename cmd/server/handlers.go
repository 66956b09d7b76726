package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/printout"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
	"github.com/Simplici0/cabinet-cpq/internal/store"
	"github.com/Simplici0/cabinet-cpq/internal/workflow"
)

var errQuoteNotFound = errors.New("quote not found")

type server struct {
	engine   *workflow.Engine
	quotes   *store.QuoteStore
	sessions *sessionManager
}

func newServer(engine *workflow.Engine, quotes *store.QuoteStore, secret string) *server {
	return &server{engine: engine, quotes: quotes, sessions: newSessionManager(secret)}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessions.middleware)

		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/models/{modelID}/products", s.handleModelProducts)

		r.Get("/state", s.handleState)
		r.Post("/session/reset", s.handleSessionReset)
		r.Post("/customer", s.handleSelectCustomer)

		r.Post("/rooms", s.handleAddRoom)
		r.Patch("/rooms/{roomID}", s.handleUpdateRoom)
		r.Put("/rooms/{roomID}/model", s.handleSetRoomModel)
		r.Post("/rooms/{roomID}/processings/{processingID}/toggle", s.handleToggleRoomProcessing)
		r.Delete("/rooms/{roomID}", s.handleRemoveRoom)

		r.Post("/items", s.handleAddItem)
		r.Put("/items/{itemID}/quantity", s.handleUpdateQuantity)
		r.Put("/items/{itemID}/room", s.handleMoveItem)
		r.Delete("/items/{itemID}", s.handleRemoveItem)
		r.Get("/items/{itemID}/available", s.handleAvailable)
		r.Post("/items/{itemID}/processings", s.handleApplyProcessing)
		r.Put("/items/{itemID}/processings/{processingID}/options", s.handleResolveOptions)
		r.Delete("/items/{itemID}/processings/{processingID}", s.handleRemoveProcessing)

		r.Put("/discount", s.handleOrderDiscount)
		r.Put("/notes", s.handleNotes)
		r.Post("/save", s.handleSave)
		r.Get("/quote/print", s.handlePrintCurrent)

		r.Get("/quotes", s.handleQuotesList)
		r.Get("/quotes/{quoteID}", s.handleQuoteDetail)
		r.Get("/quotes/{quoteID}/print", s.handlePrintSaved)
		r.Post("/quotes/{quoteID}/load", s.handleLoadQuote)
	})

	return r
}

// apply runs one transition against the caller's session and responds with
// the resulting state. A failed transition leaves the session untouched.
func (s *server) apply(w http.ResponseWriter, r *http.Request, fn func(workflow.State) (workflow.State, error)) {
	sess := s.sessions.get(sessionID(r))
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, err := fn(sess.state)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.state = next
	writeJSON(w, http.StatusOK, next)
}

func (s *server) current(r *http.Request) workflow.State {
	sess := s.sessions.get(sessionID(r))
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.Clone()
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Catalog().Data())
}

func (s *server) handleModelProducts(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelID")
	if _, ok := s.engine.Catalog().Model(modelID); !ok {
		writeError(w, fmt.Errorf("model %s: %w", modelID, workflow.ErrUnknownModel))
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Catalog().ProductsForModel(modelID))
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current(r))
}

func (s *server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	s.sessions.drop(sessionID(r))
	s.sessions.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSelectCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CustomerID string `json:"customerId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.SelectCustomer(st, strings.TrimSpace(body.CustomerID))
	})
}

func (s *server) handleAddRoom(w http.ResponseWriter, r *http.Request) {
	var in workflow.RoomInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.AddRoom(st, in)
	})
}

func (s *server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var patch workflow.RoomPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.UpdateRoom(st, roomID, patch)
	})
}

func (s *server) handleSetRoomModel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FrontModelID string `json:"frontModelId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	roomID := chi.URLParam(r, "roomID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.SetRoomModel(st, roomID, body.FrontModelID)
	})
}

func (s *server) handleToggleRoomProcessing(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	processingID := chi.URLParam(r, "processingID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.ToggleRoomProcessing(st, roomID, processingID)
	})
}

func (s *server) handleRemoveRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.RemoveRoom(st, roomID)
	})
}

func (s *server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var in workflow.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.AddItem(st, in)
	})
}

func (s *server) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.UpdateQuantity(st, itemID, body.Quantity)
	})
}

func (s *server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.MoveItem(st, itemID, body.RoomID)
	})
}

func (s *server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.RemoveItem(st, itemID)
	})
}

func (s *server) handleAvailable(w http.ResponseWriter, r *http.Request) {
	procs, err := s.engine.AvailableProcessings(s.current(r), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, procs)
}

// optionsBody carries plain JSON option values keyed by option id.
type optionsBody struct {
	ProcessingID string                     `json:"processingId,omitempty"`
	Options      map[string]json.RawMessage `json:"options"`
}

func (s *server) optionValues(processingID string, raw map[string]json.RawMessage) (catalog.OptionValues, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	proc, ok := s.engine.Catalog().Processing(processingID)
	if !ok {
		return nil, fmt.Errorf("processing %s: %w", processingID, workflow.ErrUnknownProcessing)
	}
	return parseOptionValues(proc, raw)
}

func (s *server) handleApplyProcessing(w http.ResponseWriter, r *http.Request) {
	var body optionsBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	values, err := s.optionValues(body.ProcessingID, body.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.ApplyProcessing(st, itemID, body.ProcessingID, values)
	})
}

func (s *server) handleResolveOptions(w http.ResponseWriter, r *http.Request) {
	var body optionsBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	processingID := chi.URLParam(r, "processingID")
	values, err := s.optionValues(processingID, body.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.ResolveOptions(st, itemID, processingID, values)
	})
}

func (s *server) handleRemoveProcessing(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	processingID := chi.URLParam(r, "processingID")
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.RemoveProcessing(st, itemID, processingID)
	})
}

func (s *server) handleOrderDiscount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.SetOrderDiscount(st, body.Amount)
	})
}

func (s *server) handleNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	s.apply(w, r, func(st workflow.State) (workflow.State, error) {
		return s.engine.SetNotes(st, body.Notes)
	})
}

// handleSave stamps the quote and writes it to the saved list. The session
// only advances once the write succeeded.
func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(sessionID(r))
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next, saved, err := s.engine.Save(sess.state)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.quotes.SaveQuote(r.Context(), saved); err != nil {
		writeError(w, fmt.Errorf("save quote %s: %w", saved.ID, err))
		return
	}
	sess.state = next
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handlePrintCurrent(w http.ResponseWriter, r *http.Request) {
	st := s.current(r)
	if st.Quote == nil {
		writeError(w, fmt.Errorf("print: %w", workflow.ErrNoQuote))
		return
	}
	s.renderQuote(w, r, *st.Quote)
}

type quoteListItem struct {
	ID           string          `json:"id"`
	QuoteNumber  string          `json:"quoteNumber"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Status       quote.Status    `json:"status"`
	FinalTotal   decimal.Decimal `json:"finalTotal"`
	Total        string          `json:"total"`
	SavedAt      *time.Time      `json:"savedAt,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.quotes.Search(r.Context(), term)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]quoteListItem, 0, len(quotes))
	for _, q := range quotes {
		item := quoteListItem{
			ID:          q.ID,
			QuoteNumber: q.QuoteNumber,
			CustomerID:  q.CustomerID,
			Status:      q.Status,
			FinalTotal:  q.FinalTotal,
			Total:       printout.Money(q.FinalTotal),
			SavedAt:     q.SavedAt,
			Notes:       q.Notes,
		}
		if c, ok := s.engine.Catalog().Customer(q.CustomerID); ok {
			item.CustomerName = c.Name
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) savedQuote(r *http.Request) (quote.Quote, error) {
	id := chi.URLParam(r, "quoteID")
	q, found, err := s.quotes.Get(r.Context(), id)
	if err != nil {
		return quote.Quote{}, err
	}
	if !found {
		return quote.Quote{}, fmt.Errorf("%s: %w", id, errQuoteNotFound)
	}
	return q, nil
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	q, err := s.savedQuote(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handlePrintSaved(w http.ResponseWriter, r *http.Request) {
	q, err := s.savedQuote(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.renderQuote(w, r, q)
}

func (s *server) handleLoadQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.savedQuote(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.apply(w, r, func(workflow.State) (workflow.State, error) {
		return s.engine.LoadQuote(q)
	})
}

// renderQuote writes the printable quote; ?format=text selects plain text.
func (s *server) renderQuote(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	doc := printout.Build(q, s.engine.Catalog())

	var buf bytes.Buffer
	var err error
	contentType := "text/html; charset=utf-8"
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "html":
		err = printout.RenderHTML(&buf, doc)
	case "text", "txt":
		contentType = "text/plain; charset=utf-8"
		err = printout.RenderText(&buf, doc)
	default:
		writeError(w, fmt.Errorf("%w: unknown format %q", errBadRequest, r.URL.Query().Get("format")))
		return
	}
	if err != nil {
		writeError(w, fmt.Errorf("render quote %s: %w", q.ID, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
