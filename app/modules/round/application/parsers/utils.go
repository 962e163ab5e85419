package parsers

import (
	"bytes"
	"fmt"
	"strings"
)

// Accepted header spellings per column, compared after normalization.
var (
	dateColumns   = []string{"date", "played", "played on", "date played", "day"}
	courseColumns = []string{"course", "course name", "golf course"}
	ratingColumns = []string{"rating", "course rating", "cr"}
	slopeColumns  = []string{"slope", "slope rating", "sr"}
	grossColumns  = []string{"gross", "gross score", "score", "total", "strokes"}
)

// columnIndex holds the position of each required column.
type columnIndex struct {
	date, course, rating, slope, gross int
}

func (c columnIndex) missing() []string {
	var out []string
	for _, col := range []struct {
		name string
		idx  int
	}{
		{"date", c.date}, {"course", c.course}, {"rating", c.rating}, {"slope", c.slope}, {"gross", c.gross},
	} {
		if col.idx < 0 {
			out = append(out, col.name)
		}
	}
	return out
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// findColumn searches for a column by multiple possible names (case-insensitive)
// Removes spaces, underscores, and hyphens for normalization
func findColumn(header []string, possibleNames []string) int {
	for i, col := range header {
		colNorm := normalizeHeader(col)
		for _, name := range possibleNames {
			if colNorm == normalizeHeader(name) {
				return i
			}
		}
	}
	return -1
}

func locateColumns(header []string) columnIndex {
	return columnIndex{
		date:   findColumn(header, dateColumns),
		course: findColumn(header, courseColumns),
		rating: findColumn(header, ratingColumns),
		slope:  findColumn(header, slopeColumns),
		gross:  findColumn(header, grossColumns),
	}
}

// detectHeaderRow scans the first 5 rows to find the header
// Returns the index of the header row, or -1 if not found
func detectHeaderRow(rows [][]string) int {
	maxRows := min(len(rows), 5)

	bestScore := 0
	bestRow := -1
	for rowIdx := 0; rowIdx < maxRows; rowIdx++ {
		cols := locateColumns(rows[rowIdx])
		score := 5 - len(cols.missing())
		// Need at least 2 recognized columns to consider it a header
		if score >= 2 && score > bestScore {
			bestScore = score
			bestRow = rowIdx
		}
	}
	return bestRow
}

// rowsToHistory maps a sheet of cells to history rows using the detected header.
// lines gives the source line of each row; nil means rows are numbered from 1.
func rowsToHistory(rows [][]string, lines []int) (*ParsedHistory, error) {
	headerIdx := detectHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row found; expected columns date, course, rating, slope, gross")
	}

	cols := locateColumns(rows[headerIdx])
	if missing := cols.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("header row is missing columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, idx int) string {
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	history := &ParsedHistory{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		line := i + 1
		if lines != nil {
			line = lines[i]
		}
		history.Rows = append(history.Rows, HistoryRow{
			Line:   line,
			Date:   cell(row, cols.date),
			Course: cell(row, cols.course),
			Rating: cell(row, cols.rating),
			Slope:  cell(row, cols.slope),
			Gross:  cell(row, cols.gross),
		})
	}

	if len(history.Rows) == 0 {
		return nil, fmt.Errorf("file has a header but no rounds")
	}
	return history, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// preprocessCSVData cleans CSV data and auto-detects delimiter
// Returns: cleaned string, delimiter rune, error
func preprocessCSVData(data []byte) (string, rune, error) {
	if len(data) == 0 {
		return "", ',', fmt.Errorf("empty CSV data")
	}

	// Strip UTF-8 BOM if present (0xEF, 0xBB, 0xBF)
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	// Auto-detect delimiter: count commas, semicolons and tabs in first 5 lines
	lines := strings.Split(cleaned, "\n")
	sample := strings.Join(lines[:min(len(lines), 5)], "\n")

	delimiter := ','
	best := strings.Count(sample, ",")
	for _, d := range []rune{'\t', ';'} {
		if n := strings.Count(sample, string(d)); n > best {
			best = n
			delimiter = d
		}
	}

	return cleaned, delimiter, nil
}

// looksLikeXLSX reports whether data starts with the zip signature used by XLSX.
func looksLikeXLSX(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}
