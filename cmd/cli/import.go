package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kaspistat/catalog-service/internal/category"
	"github.com/kaspistat/catalog-service/internal/database"
	"github.com/kaspistat/catalog-service/internal/importer"
	"github.com/kaspistat/catalog-service/internal/metrics"
)

var (
	importSheet      string
	importHeaderRows int
)

var importCmd = &cobra.Command{
	Use:   "import-categories <file.xlsx>",
	Short: "Import category paths from a spreadsheet",
	Long: `Read an xlsx workbook whose rows hold up to six category names followed by
up to six category urls, and add each row as a category path. Existing
categories are reused. Rows that fail are reported and skipped.`,
	Example: `  catalog-service import-categories categories.xlsx
  catalog-service import-categories categories.xlsx --sheet Tree --header-rows 1`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Worksheet name (defaults to the first sheet)")
	importCmd.Flags().IntVar(&importHeaderRows, "header-rows", 0, "Number of leading rows to skip")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	categories := category.NewService(
		database.NewCategoryStore(database.Pool()),
		*logger,
		category.WithMetrics(metrics.NewRecorder()),
	)
	im := importer.New(categories, *logger, importer.Options{Sheet: importSheet, HeaderRows: importHeaderRows})

	result, err := im.Import(cmd.Context(), f)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Rows\t%d\n", result.Rows)
	fmt.Fprintf(w, "Imported\t%d\n", result.Imported)
	fmt.Fprintf(w, "Skipped\t%d\n", result.Skipped)
	fmt.Fprintf(w, "Errors\t%d\n", len(result.Errors))
	for _, rowErr := range result.Errors {
		fmt.Fprintf(w, "  row %d\t%s\n", rowErr.Row, rowErr.Message)
	}
	return w.Flush()
}
