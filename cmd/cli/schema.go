package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/todaypicks/storefront/internal/catalog"
	"github.com/todaypicks/storefront/internal/handlers"
	"github.com/todaypicks/storefront/internal/ledger"
	"github.com/todaypicks/storefront/internal/payment"
)

var schemaOut string

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schemas for the API types",
	Long: `Generate JSON Schema files from the Go request/response types, for use
in the frontend's Zod schema generation. Go is the source of truth for the
shared API contract.`,
	Example: `  storefront schema
  storefront schema --out docs/schemas`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVar(&schemaOut, "out", "docs/schemas", "Output directory")
}

func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "catalog",
			Types: []any{
				catalog.Product{},
				catalog.Category{},
				catalog.Detail{},
				handlers.ListingResponse{},
				handlers.HealthResponse{},
			},
			Output: "catalog.json",
		},
		{
			Name: "payments",
			Types: []any{
				// Request types
				payment.InitiateRequest{},
				payment.VerifyRequest{},
				handlers.ConvertCurrencyRequest{},
				// Response types
				payment.CheckoutPayload{},
				payment.VerifyOutcome{},
				payment.Transaction{},
				ledger.Record{},
			},
			Output: "payments.json",
		},
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(schemaOut, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reflector := &jsonschema.Reflector{}

	for _, group := range schemaGroups() {
		definitions := make(map[string]any)
		for _, t := range group.Types {
			schema := reflector.Reflect(t)
			for defName, def := range schema.Definitions {
				definitions[defName] = def
			}
		}

		document := map[string]any{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"$id":     fmt.Sprintf("https://todaypicks.dev/schemas/%s.json", group.Name),
			"$defs":   definitions,
		}

		data, err := json.MarshalIndent(document, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s schemas: %w", group.Name, err)
		}

		outPath := filepath.Join(schemaOut, group.Output)
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		logger.Info().Str("file", outPath).Int("types", len(group.Types)).Msg("Wrote schema group")
	}

	return nil
}
