package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/cabinet-cpq/internal/app"
	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/printout"
	"github.com/Simplici0/cabinet-cpq/internal/quote"
	"github.com/Simplici0/cabinet-cpq/internal/store"
)

var (
	searchTerm  string
	printFormat string
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Inspect saved quotes",
}

var quotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quotes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runQuotesList,
}

var quotesShowCmd = &cobra.Command{
	Use:   "show <id-or-number>",
	Short: "Print a saved quote as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuotesShow,
}

var quotesPrintCmd = &cobra.Command{
	Use:   "print <id-or-number>",
	Short: "Render a saved quote for the customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuotesPrint,
}

func init() {
	rootCmd.AddCommand(quotesCmd)
	quotesCmd.AddCommand(quotesListCmd, quotesShowCmd, quotesPrintCmd)

	quotesListCmd.Flags().StringVarP(&searchTerm, "query", "q", "", "Filter by quote number, customer or notes")
	quotesPrintCmd.Flags().StringVar(&printFormat, "format", "text", "Output format: text or html")
}

// withQuotes opens the configured store and hands the saved-quote list and
// catalog to fn.
func withQuotes(ctx context.Context, fn func(*store.QuoteStore, *catalog.Catalog) error) error {
	cfg := loadConfig()

	kv, closeStore, err := app.OpenStore(cfg, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	c, err := app.Catalog(ctx, cfg, kv, false)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	return fn(store.NewQuoteStore(kv), c)
}

func findQuote(ctx context.Context, quotes *store.QuoteStore, id string) (quote.Quote, error) {
	q, found, err := quotes.Get(ctx, id)
	if err != nil {
		return quote.Quote{}, err
	}
	if !found {
		return quote.Quote{}, fmt.Errorf("quote %s not found", id)
	}
	return q, nil
}

func runQuotesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withQuotes(ctx, func(quotes *store.QuoteStore, c *catalog.Catalog) error {
		list, err := quotes.Search(ctx, strings.TrimSpace(searchTerm))
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no saved quotes")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NUMBER\tCUSTOMER\tSTATUS\tTOTAL\tSAVED")
		for _, q := range list {
			customer := q.CustomerID
			if cust, ok := c.Customer(q.CustomerID); ok {
				customer = cust.Name
			}
			saved := "-"
			if q.SavedAt != nil {
				saved = q.SavedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", q.QuoteNumber, customer, q.Status, printout.Money(q.FinalTotal), saved)
		}
		return tw.Flush()
	})
}

func runQuotesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withQuotes(ctx, func(quotes *store.QuoteStore, _ *catalog.Catalog) error {
		q, err := findQuote(ctx, quotes, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	})
}

func runQuotesPrint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withQuotes(ctx, func(quotes *store.QuoteStore, c *catalog.Catalog) error {
		q, err := findQuote(ctx, quotes, args[0])
		if err != nil {
			return err
		}
		doc := printout.Build(q, c)
		switch strings.ToLower(printFormat) {
		case "text", "txt":
			return printout.RenderText(cmd.OutOrStdout(), doc)
		case "html":
			return printout.RenderHTML(cmd.OutOrStdout(), doc)
		}
		return fmt.Errorf("unknown format %q", printFormat)
	})
}
