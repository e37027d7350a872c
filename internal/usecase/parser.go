package usecase

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/foodname"
)

// parserUnits is the unit vocabulary recognised after a quantity, longest first
var parserUnits = func() [][]rune {
	words := []string{
		"g", "gram", "grams", "グラム", "kg",
		"ml", "l", "ミリリットル", "リットル",
		"cup", "cups", "カップ", "bowl", "bowls", "杯", "茶碗",
		"個", "piece", "pieces", "枚", "slice", "slices", "本", "串",
	}
	sort.SliceStable(words, func(i, j int) bool {
		return len([]rune(words[i])) > len([]rune(words[j]))
	})
	out := make([][]rune, len(words))
	for i, w := range words {
		out[i] = []rune(w)
	}
	return out
}()

var (
	itemSeparators = strings.NewReplacer(
		";", ",", "；", ",", "、", ",", "，", ",", "・", ",",
		"/", ",", "／", ",", "|", ",", "｜", ",", "\r", "\n",
	)
	connectives = regexp.MustCompile(`(?i)\s+と\s+|\band\b`)
)

// RuleParser is the heuristic free-text item parser
type RuleParser struct{}

// ParseItems implements domain.ItemParser
func (RuleParser) ParseItems(_ context.Context, text string) ([]domain.ParsedItem, error) {
	return ParseFreeText(text), nil
}

// ParseFreeText splits text into items. Separators (commas, slashes, pipes,
// bullets, "と", "and") and newlines delimit chunks; inside a chunk every
// name followed by a quantity and an optional unit becomes an item and
// leftover words become bare names.
func ParseFreeText(text string) []domain.ParsedItem {
	text = foodname.NFKC(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	text = itemSeparators.Replace(text)
	text = connectives.ReplaceAllString(text, ",")

	var items []domain.ParsedItem
	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' }) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		items = append(items, parseChunk([]rune(chunk))...)
	}
	return items
}

// parseChunk scans name/quantity/unit triples left to right. Runes that no
// triple consumed are rescanned for bare names.
func parseChunk(rs []rune) []domain.ParsedItem {
	n := len(rs)
	consumed := make([]bool, n)
	var items []domain.ParsedItem
	matched := false

	for i := 0; i < n; {
		// a triple starts at a non-digit
		start := i
		for start < n && isDigit(rs[start]) {
			start++
		}
		qStart := start
		for qStart < n && !isDigit(rs[qStart]) {
			qStart++
		}
		if start >= n || qStart >= n {
			break
		}

		qEnd := scanNumber(rs, qStart)
		end := qEnd
		for end < n && unicode.IsSpace(rs[end]) {
			end++
		}
		unit := ""
		if l := matchUnit(rs[end:]); l > 0 {
			unit = strings.ToLower(string(rs[end : end+l]))
			end += l
		}

		for k := start; k < end; k++ {
			consumed[k] = true
		}
		matched = true

		name := strings.TrimSpace(string(rs[start:qStart]))
		if name != "" {
			q, err := strconv.ParseFloat(string(rs[qStart:qEnd]), 64)
			item := domain.ParsedItem{Name: name, Unit: unit}
			if err == nil {
				item.Quantity = domain.Quantity(q)
			}
			items = append(items, item)
		}
		i = end
	}

	if !matched {
		return []domain.ParsedItem{{Name: string(rs)}}
	}

	leftover := make([]rune, n)
	for k, r := range rs {
		if consumed[k] {
			leftover[k] = ' '
		} else {
			leftover[k] = r
		}
	}
	for _, piece := range strings.Fields(string(leftover)) {
		if isUnitOnly(piece) {
			continue
		}
		items = append(items, domain.ParsedItem{Name: piece})
	}
	return items
}

// scanNumber returns the end of the number starting at i: digits with an
// optional fractional part.
func scanNumber(rs []rune, i int) int {
	for i < len(rs) && isDigit(rs[i]) {
		i++
	}
	if i+1 < len(rs) && rs[i] == '.' && isDigit(rs[i+1]) {
		i++
		for i < len(rs) && isDigit(rs[i]) {
			i++
		}
	}
	return i
}

// matchUnit returns the rune length of the longest unit at the head of rs.
// An ASCII unit must not run into a following ASCII letter.
func matchUnit(rs []rune) int {
	for _, u := range parserUnits {
		if len(rs) < len(u) || !equalFoldRunes(rs[:len(u)], u) {
			continue
		}
		if isASCIILetter(u[len(u)-1]) && len(rs) > len(u) && isASCIILetter(rs[len(u)]) {
			continue
		}
		return len(u)
	}
	return 0
}

func isUnitOnly(piece string) bool {
	rs := []rune(piece)
	for _, u := range parserUnits {
		if len(rs) == len(u) && equalFoldRunes(rs, u) {
			return true
		}
	}
	return false
}

func equalFoldRunes(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
