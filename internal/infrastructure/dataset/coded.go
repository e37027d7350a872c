package dataset

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Markers identifying the coded multi-header schema (Japanese standard
// food composition tables).
const (
	codedHeaderMarker = "成分識別子"
	codedEnergyCode   = "ENERC_KCAL"
)

// Layout of the coded schema: data rows carry three leading columns before
// the first coded column, and the food name sits in the fourth cell.
const (
	codedValueOffset = 3
	codedNameColumn  = 3
	codedMinCells    = 10
)

var (
	codedDataRow          = regexp.MustCompile(`^\d{2},\d+,\d+,`)
	parenContent          = regexp.MustCompile(`\(.*?\)`)
	firstNumber           = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	numericPlaceholderSet = strings.NewReplacer("Tr", "0", "−", "0", "-", "0", "*", "")
)

// carbohydrate codes in preference order; the first positive value wins
var carbCodes = []string{"CHOCDF-", "CHOAVL", "CHOAVLM", "CHOAVLDF-"}

var (
	errCodedHeader = errors.New("coded header row not found")
	errCodedRows   = errors.New("no data rows found")
)

func isCodedSchema(content string) bool {
	return strings.Contains(content, codedHeaderMarker) && strings.Contains(content, codedEnergyCode)
}

type codedRow struct {
	name   string
	macros [4]float64 // kcal, protein, fat, carbs
}

// parseCoded extracts rows from the coded multi-header schema
func parseCoded(content string) ([]codedRow, error) {
	lines := nonEmptyLines(content)

	headerIdx := -1
	for i, ln := range lines {
		if strings.Contains(ln, codedHeaderMarker) && strings.Contains(ln, codedEnergyCode) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, errCodedHeader
	}

	columns := make(map[string]int)
	for i, h := range splitCells(lines[headerIdx]) {
		if h != "" {
			columns[h] = i
		}
	}

	dataStart := -1
	for j := headerIdx + 1; j < len(lines); j++ {
		if codedDataRow.MatchString(lines[j]) {
			dataStart = j
			break
		}
	}
	if dataStart < 0 {
		return nil, errCodedRows
	}

	valueOf := func(cells []string, code string) float64 {
		h, ok := columns[code]
		if !ok {
			return 0
		}
		d := h + codedValueOffset
		if d < len(cells) {
			return parseNumericCell(cells[d])
		}
		return 0
	}

	var rows []codedRow
	for _, ln := range lines[dataStart:] {
		// footers and section notes
		if !codedDataRow.MatchString(ln) {
			continue
		}
		cells := splitCells(ln)
		if len(cells) < codedMinCells {
			continue
		}
		name := strings.TrimSpace(cells[codedNameColumn])
		if name == "" {
			continue
		}

		carbs := 0.0
		for _, code := range carbCodes {
			if v := valueOf(cells, code); v > 0 {
				carbs = v
				break
			}
		}
		rows = append(rows, codedRow{
			name: name,
			macros: [4]float64{
				valueOf(cells, codedEnergyCode),
				valueOf(cells, "PROT-"),
				valueOf(cells, "FAT-"),
				carbs,
			},
		})
	}
	return rows, nil
}

// parseNumericCell reads a composition-table cell. Trace markers and dash
// placeholders count as zero, a parenthesised value is an estimate and is
// read as its number, anything unreadable is zero.
func parseNumericCell(cell string) float64 {
	s := numericPlaceholderSet.Replace(cell)
	m := firstNumber.FindString(parenContent.ReplaceAllString(s, ""))
	if m == "" {
		m = firstNumber.FindString(s)
	}
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func splitCells(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"`)
	}
	return parts
}

func nonEmptyLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimRight(ln, "\r")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		out = append(out, ln)
	}
	return out
}
