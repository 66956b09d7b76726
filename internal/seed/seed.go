package seed

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/store"
)

// CatalogKey holds the catalog snapshot the server prices against.
const CatalogKey = "catalog"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run writes the catalog snapshot and an empty saved-quote list in an
// idempotent way. An unchanged snapshot is left alone.
func Run(ctx context.Context, kv store.KV, c *catalog.Catalog) (Stats, error) {
	stats := Stats{}

	if err := ensureCatalog(ctx, kv, c, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureQuoteList(ctx, kv, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func ensureCatalog(ctx context.Context, kv store.KV, c *catalog.Catalog, stats *Stats) error {
	var buf bytes.Buffer
	if err := catalog.Encode(&buf, c); err != nil {
		return err
	}

	existing, found, err := kv.Get(ctx, CatalogKey)
	if err != nil {
		return fmt.Errorf("check catalog snapshot: %w", err)
	}
	if found && bytes.Equal(existing, buf.Bytes()) {
		return nil
	}

	if err := kv.Put(ctx, CatalogKey, buf.Bytes()); err != nil {
		return fmt.Errorf("write catalog snapshot: %w", err)
	}
	if found {
		stats.Updates++
	} else {
		stats.Inserts++
	}
	return nil
}

func ensureQuoteList(ctx context.Context, kv store.KV, stats *Stats) error {
	_, found, err := kv.Get(ctx, store.QuotesKey)
	if err != nil {
		return fmt.Errorf("check saved quotes: %w", err)
	}
	if found {
		return nil
	}

	if err := kv.Put(ctx, store.QuotesKey, []byte("[]")); err != nil {
		return fmt.Errorf("insert empty saved quotes: %w", err)
	}
	stats.Inserts++
	return nil
}

// LoadCatalog reads the seeded snapshot. found is false when nothing was
// seeded yet.
func LoadCatalog(ctx context.Context, kv store.KV) (c *catalog.Catalog, found bool, err error) {
	raw, found, err := kv.Get(ctx, CatalogKey)
	if err != nil {
		return nil, false, fmt.Errorf("read catalog snapshot: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	c, err = catalog.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}
