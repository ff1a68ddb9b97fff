package collector

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"CagrSentinel/internal/model"
)

// ReadWorkbook reads the close series from opts.Sheet. The first
// opts.SkipRows rows are ignored and the next row is the header.
func ReadWorkbook(r io.Reader, opts Options, log zerolog.Logger) ([]model.PricePoint, error) {
	fx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", model.ErrInvalidInput, err)
	}
	defer fx.Close()

	if idx, err := fx.GetSheetIndex(opts.Sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: workbook has no sheet %q", model.ErrInvalidInput, opts.Sheet)
	}

	rows, err := fx.GetRows(opts.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", opts.Sheet, err)
	}
	if len(rows) <= opts.SkipRows {
		return nil, fmt.Errorf("%w: sheet %q has no header after %d skipped rows",
			model.ErrInvalidInput, opts.Sheet, opts.SkipRows)
	}

	return parseTable(rows[opts.SkipRows], rows[opts.SkipRows+1:], opts, log)
}
