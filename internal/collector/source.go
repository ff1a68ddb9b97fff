package collector

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"CagrSentinel/internal/model"
)

// Source yields a cleaned close series.
type Source interface {
	Load() (*model.PriceSeries, error)
	Name() string
}

// Options describe where the close series lives inside a table.
type Options struct {
	Sheet       string // workbook sheet name
	SkipRows    int    // rows above the header row (workbooks only)
	DateColumn  string
	CloseColumn string
}

// DefaultOptions matches the exported broker statement layout: Sheet1,
// two banner rows, then a header with Date and Close columns.
func DefaultOptions() Options {
	return Options{Sheet: "Sheet1", SkipRows: 2, DateColumn: "Date", CloseColumn: "Close"}
}

// FileSource reads a workbook (.xlsx, .xlsm) or a CSV file from disk.
type FileSource struct {
	Path string
	Opts Options
	log  zerolog.Logger
}

// NewFileSource creates a FileSource.
func NewFileSource(path string, opts Options, log zerolog.Logger) *FileSource {
	return &FileSource{Path: path, Opts: opts, log: log.With().Str("component", "collector").Logger()}
}

func (s *FileSource) Name() string { return filepath.Base(s.Path) }

// Load opens the file and parses it according to its extension.
func (s *FileSource) Load() (*model.PriceSeries, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	points, err := Read(s.Path, f, s.Opts, s.log)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.Name(), err)
	}
	return &model.PriceSeries{Source: s.Name(), Points: points}, nil
}

// Read parses r as a workbook or CSV, chosen by the extension of name.
func Read(name string, r io.Reader, opts Options, log zerolog.Logger) ([]model.PricePoint, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(r, opts, log)
	case ".csv":
		return ReadCSV(r, opts, log)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", model.ErrInvalidInput, ext)
	}
}

// Supported reports whether Load understands the file's extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}
