package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/cabinet-cpq/internal/app"
	"github.com/Simplici0/cabinet-cpq/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the catalog snapshot to the store",
	Long: `Seed the store with the catalog read from CATALOG_PATH, or the
built-in catalog when it is unset. Running it again only writes what changed.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	kv, closeStore, err := app.OpenStore(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	c, err := app.SourceCatalog(cfg)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	stats, err := seed.Run(cmd.Context(), kv, c)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seed completed: %d inserted, %d updated (%d products, %d processings)\n",
		stats.Inserts, stats.Updates, len(c.Products()), len(c.Processings()))
	return nil
}
