package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"CagrSentinel/internal/backtest"
	"CagrSentinel/internal/model"
)

// Sheet names of the result workbook.
const (
	SheetHistory = "Historical Data with CAGR"
	SheetLedger  = "Backtesting Results"
	SheetSummary = "Performance Summary"
)

// Column headers, in sheet order.
var (
	HistoryColumns = []string{"Date", "Close", "Exit Date", "Exit Price", "Annualized CAGR", "Category"}
	LedgerColumns  = []string{
		"Date", "Category", "Close Price", "Units Bought", "Units Sold", "Total Units Held",
		"Portfolio Value", "Total Invested", "Total Withdrawn", "Remaining Cash",
	}
	SummaryColumns = []string{"Metric", "Value"}
)

// Metric is one line of the performance summary table.
type Metric struct {
	Name  string
	Value float64
}

// SummaryMetrics lists the summary as the Metric/Value table.
func SummaryMetrics(s model.SummaryRow) []Metric {
	return []Metric{
		{"Final Portfolio Value", s.FinalPortfolioValue},
		{"Remaining Cash", s.RemainingCash},
		{"Total Invested", s.TotalInvested},
		{"Total Withdrawn", s.TotalWithdrawn},
		{"Net Profit", s.NetProfit},
		{"CAGR (on capital)", s.CAGROnCapital},
	}
}

type styles struct {
	header  int
	date    int
	percent int
}

func newStyles(fx *excelize.File) (styles, error) {
	var st styles
	var err error

	st.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Family: "Calibri", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return st, err
	}

	dateFmt := "yyyy-mm-dd"
	st.date, err = fx.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return st, err
	}

	st.percent, err = fx.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return st, err
	}
	return st, nil
}

// WriteWorkbook renders the three result tables as one workbook into w.
func WriteWorkbook(w io.Writer, res *backtest.Result) error {
	fx, err := build(res)
	if err != nil {
		return err
	}
	defer fx.Close()
	if _, err := fx.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ResultName returns the output workbook name for an input file:
// "nifty.csv" becomes "nifty_result.xlsx".
func ResultName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_result.xlsx"
}

// SaveWorkbook writes the result workbook to path, creating parent directories.
func SaveWorkbook(path string, res *backtest.Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	fx, err := build(res)
	if err != nil {
		return err
	}
	defer fx.Close()
	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func build(res *backtest.Result) (*excelize.File, error) {
	fx := excelize.NewFile()

	fx.SetSheetName(fx.GetSheetName(0), SheetHistory)
	if _, err := fx.NewSheet(SheetLedger); err != nil {
		fx.Close()
		return nil, err
	}
	if _, err := fx.NewSheet(SheetSummary); err != nil {
		fx.Close()
		return nil, err
	}

	st, err := newStyles(fx)
	if err != nil {
		fx.Close()
		return nil, fmt.Errorf("create styles: %w", err)
	}

	writers := []func(*excelize.File, *backtest.Result, styles) error{
		writeHistory, writeLedger, writeSummary,
	}
	for _, write := range writers {
		if err := write(fx, res, st); err != nil {
			fx.Close()
			return nil, err
		}
	}
	fx.SetActiveSheet(0)
	return fx, nil
}

func writeRow(fx *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return fx.SetSheetRow(sheet, cell, &values)
}

func writeHeader(fx *excelize.File, sheet string, columns []string, st styles) error {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	if err := writeRow(fx, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, "A1", last, st.header)
}

func writeHistory(fx *excelize.File, res *backtest.Result, st styles) error {
	for i, r := range res.Classified {
		if err := writeRow(fx, SheetHistory, i+2, []interface{}{
			r.EntryDate, r.EntryClose, r.ExitDate, r.ExitClose, r.AnnualizedRate, string(r.Category),
		}); err != nil {
			return fmt.Errorf("write %s row %d: %w", SheetHistory, i+2, err)
		}
	}
	for _, col := range []string{"A", "C"} {
		if err := fx.SetColStyle(SheetHistory, col, st.date); err != nil {
			return err
		}
	}
	if err := fx.SetColStyle(SheetHistory, "E", st.percent); err != nil {
		return err
	}
	if err := fx.SetColWidth(SheetHistory, "A", "F", 16); err != nil {
		return err
	}
	return writeHeader(fx, SheetHistory, HistoryColumns, st)
}

func writeLedger(fx *excelize.File, res *backtest.Result, st styles) error {
	for i, r := range res.Ledger {
		if err := writeRow(fx, SheetLedger, i+2, []interface{}{
			r.Date, string(r.Category), r.ClosePrice, r.UnitsBought, r.UnitsSold, r.TotalUnitsHeld,
			r.PortfolioValue, r.TotalInvested, r.TotalWithdrawn, r.RemainingCash,
		}); err != nil {
			return fmt.Errorf("write %s row %d: %w", SheetLedger, i+2, err)
		}
	}
	if err := fx.SetColStyle(SheetLedger, "A", st.date); err != nil {
		return err
	}
	if err := fx.SetColWidth(SheetLedger, "A", "J", 16); err != nil {
		return err
	}
	return writeHeader(fx, SheetLedger, LedgerColumns, st)
}

func writeSummary(fx *excelize.File, res *backtest.Result, st styles) error {
	for i, m := range SummaryMetrics(res.Summary) {
		if err := writeRow(fx, SheetSummary, i+2, []interface{}{m.Name, m.Value}); err != nil {
			return fmt.Errorf("write %s row %d: %w", SheetSummary, i+2, err)
		}
	}
	if err := fx.SetColWidth(SheetSummary, "A", "B", 22); err != nil {
		return err
	}
	return writeHeader(fx, SheetSummary, SummaryColumns, st)
}
