// Package processor runs the per-row batch job that turns spreadsheet rows
// into composed images.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imagemodify/imagemodify/internal/badge"
	"github.com/imagemodify/imagemodify/internal/logger"
	"github.com/imagemodify/imagemodify/internal/sheets"
)

// Fixed column layout: A = image URL, B = price text, C = output URL.
const (
	imageURLCol = 1
	priceCol    = 2
	outputCol   = 3
)

type Composer interface {
	Compose(req badge.Request) (string, error)
}

// Summary counts the outcome of one batch run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Processor iterates sheet rows, composes one image per row and writes the
// public URL back into the output column.
type Processor struct {
	composer  Composer
	baseURL   string
	outputDir string

	shape       badge.Shape
	badgeColor  string
	includeLink bool
}

func New(composer Composer, baseURL, outputDir string) *Processor {
	return &Processor{
		composer:    composer,
		baseURL:     baseURL,
		outputDir:   outputDir,
		shape:       badge.ShapeCircle,
		badgeColor:  "#FF0000",
		includeLink: true,
	}
}

// ProcessSheet processes every row in input order. Rows with an empty
// image URL are skipped with their output cell untouched. A failing row is
// logged and never aborts the batch.
func (p *Processor) ProcessSheet(ctx context.Context, sheet sheets.Sheet) (Summary, error) {
	rows, err := sheet.Rows(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch rows: %w", err)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	var summary Summary

	for i, row := range rows {
		rowIndex := i + 1 // sheet rows are 1-based

		imageURL := cell(row, imageURLCol)
		priceText := cell(row, priceCol)

		if imageURL == "" {
			summary.Skipped++
			continue
		}

		if err := p.processRow(ctx, sheet, rowIndex, imageURL, priceText); err != nil {
			logger.Log.Error("row processing failed",
				"row", rowIndex,
				"error", err)
			summary.Failed++
			continue
		}

		summary.Processed++
	}

	logger.Log.Info("sheet processing completed",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary, nil
}

func (p *Processor) processRow(ctx context.Context, sheet sheets.Sheet, rowIndex int, imageURL, priceText string) error {
	outputFilename := fmt.Sprintf("edited_%d.png", rowIndex)
	outputPath := filepath.Join(p.outputDir, outputFilename)

	if _, err := p.composer.Compose(badge.Request{
		PhotoPath:   imageURL,
		PriceText:   priceText,
		Shape:       p.shape,
		Color:       p.badgeColor,
		IncludeLink: p.includeLink,
		OutputPath:  outputPath,
	}); err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	publicURL := fmt.Sprintf("%s/images/edited/%s", p.baseURL, outputFilename)
	if err := sheet.UpdateCell(ctx, rowIndex, outputCol, publicURL); err != nil {
		return fmt.Errorf("update cell: %w", err)
	}

	logger.Log.Info("row processed", "row", rowIndex, "url", publicURL)
	return nil
}

// cell reads a 1-based column, tolerating short rows.
func cell(row []string, col int) string {
	if col-1 >= len(row) {
		return ""
	}
	return row[col-1]
}
