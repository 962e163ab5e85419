package parsers

import (
	"fmt"
	"strings"
)

// HistoryRow is one round read from an import file. Cells are kept as text;
// the round service parses and validates them so every bad row can be reported.
type HistoryRow struct {
	Line   int
	Date   string
	Course string
	Rating string
	Slope  string
	Gross  string
}

// ParsedHistory is the content of a round history import file.
type ParsedHistory struct {
	Rows []HistoryRow
}

// Parser defines the interface for round history parsers
type Parser interface {
	Parse(data []byte) (*ParsedHistory, error)
}

// ParserFactory defines the interface for creating parsers
type ParserFactory interface {
	GetParser(filename string) (Parser, error)
}

// Factory creates the appropriate parser based on file extension
type Factory struct{}

// NewFactory creates a new parser factory
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the appropriate parser for the given filename
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(getFileExtension(filename))

	switch ext {
	case ".csv", ".tsv", ".txt":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}

// getFileExtension extracts the file extension from a filename
func getFileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return ""
	}
	return filename[idx:]
}
