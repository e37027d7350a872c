package dataset

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readText reads a dataset file as UTF-8 (BOM stripped), falling back to
// Shift_JIS for files exported by Japanese spreadsheet tools.
func readText(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return decodeText(raw)
}

func decodeText(raw []byte) (string, string, error) {
	body := bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(body) {
		return string(body), "utf-8", nil
	}

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("decode as shift_jis: %w", err)
	}
	return string(decoded), "shift_jis", nil
}
