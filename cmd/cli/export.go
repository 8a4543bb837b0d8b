package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/todaypicks/storefront/internal/catalog"
	"github.com/todaypicks/storefront/internal/pricing"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full catalog to an xlsx workbook",
	Long: `Fetch every category and write the catalog to an xlsx workbook, one
worksheet per category plus a summary sheet. Useful for offline review of
what the published sheets currently serve.`,
	Example: `  storefront export
  storefront export --out catalog.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOutput, "out", "catalog.xlsx", "Output file path")
}

var productHeader = []string{"ID", "Name", "Subtitle", "Price", "Discount %", "Final Price", "Link"}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	service := newCatalogService()

	logger.Info().Msg("Fetching full catalog")
	listing, err := service.Listing(ctx, catalog.AllCategories)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	byCategory := make(map[string][]catalog.Product)
	for _, c := range listing.Categories {
		grid, err := service.Listing(ctx, c.ID)
		if err != nil {
			logger.Warn().Err(err).Str("category", c.ID).Msg("Skipping category")
			continue
		}
		byCategory[c.ID] = grid.Products
	}

	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), summary); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if err := f.SetSheetRow(summary, "A1", &[]string{"Category", "Name", "Products"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	row := 2
	for _, c := range listing.Categories {
		products := byCategory[c.ID]

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(summary, cell, &[]any{c.ID, c.Name, len(products)}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
		row++

		if _, err := f.NewSheet(c.ID); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", c.ID, err)
		}
		if err := f.SetSheetRow(c.ID, "A1", &productHeader); err != nil {
			return fmt.Errorf("failed to write header for %q: %w", c.ID, err)
		}
		for i, p := range products {
			final, err := pricing.Discounted(p.Price, p.DiscountPercentage)
			if err != nil {
				final = 0
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			values := []any{p.ID, p.Name, p.SubTitle, p.Price, p.DiscountPercentage, final, p.Link}
			if err := f.SetSheetRow(c.ID, cell, &values); err != nil {
				return fmt.Errorf("failed to write product row: %w", err)
			}
		}
	}

	if err := f.SaveAs(exportOutput); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	logger.Info().
		Str("file", exportOutput).
		Int("categories", len(listing.Categories)).
		Int("products", listing.TotalItems).
		Msg("Catalog exported")
	return nil
}
