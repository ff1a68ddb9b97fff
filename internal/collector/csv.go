package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"CagrSentinel/internal/model"
)

// ReadCSV reads the close series from CSV. The first record is the header;
// opts.SkipRows does not apply.
func ReadCSV(r io.Reader, opts Options, log zerolog.Logger) ([]model.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", model.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", model.ErrInvalidInput, err)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", model.ErrInvalidInput, err)
	}
	return parseTable(header, rows, opts, log)
}
