package collector

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"CagrSentinel/internal/model"
)

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseDate accepts an Excel serial number or one of dateLayouts.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if !(serial > 0 && serial <= maxExcelSerial) {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClose accepts plain or thousands-separated numbers. NaN counts as missing.
func parseClose(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseTable locates the date and close columns by trimmed header name and
// converts every data row. Rows with an unparseable date or a missing close
// are dropped. The result is sorted by date, keeping the input order of
// equal dates.
func parseTable(header []string, rows [][]string, opts Options, log zerolog.Logger) ([]model.PricePoint, error) {
	dateIdx, closeIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case opts.DateColumn:
			if dateIdx < 0 {
				dateIdx = i
			}
		case opts.CloseColumn:
			if closeIdx < 0 {
				closeIdx = i
			}
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return nil, fmt.Errorf("%w: header %q lacks %q or %q column",
			model.ErrInvalidInput, header, opts.DateColumn, opts.CloseColumn)
	}

	points := make([]model.PricePoint, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if dateIdx >= len(row) || closeIdx >= len(row) {
			dropped++
			continue
		}
		date, ok := parseDate(row[dateIdx])
		if !ok {
			dropped++
			continue
		}
		price, ok := parseClose(row[closeIdx])
		if !ok {
			dropped++
			continue
		}
		points = append(points, model.PricePoint{Date: date, Close: price})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Int("kept", len(points)).Msg("dropped rows without date or close")
	}
	return points, nil
}
