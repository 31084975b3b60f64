// Schema Generator
//
// Generates JSON Schema files for the payloads the scrapers and the browser
// extension send to the catalog service.
//
// Usage:
//
//	go run ./cmd/schema-gen -out ./schemas
//
// Output:
//
//	<out>/products.json
//	<out>/categories.json
//	<out>/catalog.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/kaspistat/catalog-service/internal/handlers"
	"github.com/kaspistat/catalog-service/internal/product"
	"github.com/kaspistat/catalog-service/internal/tariff"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "products",
			Types: []any{
				product.AddRequest{},
				product.SaveRequest{},
				product.DetailedRequest{},
				product.SellerRequest{},
				handlers.ProductResponse{},
				handlers.CategoryProductsResponse{},
			},
			Output: "products.json",
		},
		{
			Name: "categories",
			Types: []any{
				handlers.SaveCategoriesRequest{},
				handlers.SaveCategoriesResponse{},
				handlers.CategoryTreeResponse{},
				handlers.CategoryDetailsResponse{},
			},
			Output: "categories.json",
		},
		{
			Name: "catalog",
			Types: []any{
				handlers.ProductDetailsResponse{},
				product.ListItem{},
				tariff.Tariff{},
				tariff.Patch{},
				handlers.ErrorResponse{},
			},
			Output: "catalog.json",
		},
	}
}

func main() {
	outputDir := flag.String("out", "./schemas", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, group := range schemaGroups() {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(*outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	definitions := make(map[string]any)
	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		for name, def := range schema.Definitions {
			definitions[name] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://kaspistat.kz/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
