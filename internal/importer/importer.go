// Package importer loads category paths from spreadsheets.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/kaspistat/catalog-service/internal/category"
)

// PathAdder creates category paths.
type PathAdder interface {
	AddPath(ctx context.Context, names, urls category.Levels) (category.Path, error)
}

// Options control how a workbook is read.
type Options struct {
	// Sheet is the worksheet name; empty means the first sheet.
	Sheet string
	// HeaderRows is the number of leading rows to skip.
	HeaderRows int
}

// RowError describes a row that could not be imported.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes an import.
type Result struct {
	Rows     int        `json:"rows"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Importer reads rows of up to six category names followed by up to six
// category urls and adds each row as a path.
type Importer struct {
	categories PathAdder
	logger     zerolog.Logger
	opts       Options
}

func New(categories PathAdder, logger zerolog.Logger, opts Options) *Importer {
	return &Importer{
		categories: categories,
		logger:     logger.With().Str("component", "importer").Logger(),
		opts:       opts,
	}
}

// Import reads an xlsx workbook from r. Row failures are collected in the
// result and do not stop the import; only an unreadable workbook or a
// cancelled context does.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := im.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	res := &Result{Errors: []RowError{}}
	for i, row := range rows {
		if i < im.opts.HeaderRows {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		num := i + 1
		names, urls := ParseRow(row)
		if names.Empty() {
			res.Skipped++
			continue
		}
		res.Rows++

		path, err := im.categories.AddPath(ctx, names, urls)
		if err != nil {
			im.logger.Warn().Err(err).Int("row", num).Msg("could not import category path")
			res.Errors = append(res.Errors, RowError{Row: num, Message: err.Error()})
			continue
		}
		res.Imported++
		im.logger.Debug().Int("row", num).Int64("category_id", path.Deepest()).Msg("imported category path")
	}

	im.logger.Info().
		Int("rows", res.Rows).
		Int("imported", res.Imported).
		Int("failed", len(res.Errors)).
		Int("skipped", res.Skipped).
		Msg("category import finished")
	return res, nil
}

// ParseRow splits a spreadsheet row into its name and url columns.
func ParseRow(row []string) (names, urls category.Levels) {
	for i := range category.MaxLevel {
		names[i] = cell(row, i)
		urls[i] = cell(row, category.MaxLevel+i)
	}
	return names, urls
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
