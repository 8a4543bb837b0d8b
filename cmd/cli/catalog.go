package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/todaypicks/storefront/internal/cache"
	"github.com/todaypicks/storefront/internal/catalog"
	"github.com/todaypicks/storefront/internal/pricing"
	"github.com/todaypicks/storefront/internal/sheets"
)

var catalogOutput string

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog [category]",
	Short: "List products from the published catalog sheets",
	Long: `Fetch and display the product listing for one category, or for every
category when none is given. Prices are shown with the discount already applied.`,
	Example: `  storefront catalog
  storefront catalog shoes
  storefront catalog shoes --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVar(&catalogOutput, "output", "table", "Output format: table or json")
}

func newCatalogService() *catalog.Service {
	client := sheets.NewClient(sheets.ClientOptions{
		BaseURL:       cfg.Sheets.BaseURL,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Timeout:       cfg.Sheets.FetchTimeout,
		Concurrency:   cfg.Sheets.FetchConcurrency,
	})
	return catalog.NewService(client, cache.New(), cfg.Sheets.SpreadsheetID, cfg.Sheets.CacheTTL)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	category := catalog.AllCategories
	if len(args) > 0 {
		category = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	service := newCatalogService()

	logger.Info().Str("category", category).Msg("Fetching catalog")
	listing, err := service.Listing(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	if catalogOutput == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listing)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tDISCOUNT\tFINAL")
	for _, p := range listing.Products {
		final, err := pricing.Discounted(p.Price, p.DiscountPercentage)
		if err != nil {
			final = 0
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%s\n",
			p.ID, p.Name, p.Price, p.DiscountPercentage, pricing.FormatAmount(final))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d products in %q (%s)\n", listing.TotalItems, listing.Category, listing.CurrentName)
	return nil
}
