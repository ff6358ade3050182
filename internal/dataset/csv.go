package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/StandardsTable/internal/core"
)

// utf8BOM is the byte order mark Excel and other Windows tools prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// decodeCSV reads a header row of field names or column headers followed by
// one record per line. Columns missing from the header stay empty.
func decodeCSV(r io.Reader) ([]core.StandardRecord, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	fields := make([]string, len(header))
	for i, h := range header {
		field, ok := resolveColumn(cleanCell(h))
		if !ok {
			return nil, fmt.Errorf("csv header column %d: %w %q", i+1, ErrUnknownColumn, h)
		}
		fields[i] = field
	}

	var records []core.StandardRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}

		var rec core.StandardRecord
		for i, cell := range row {
			if i >= len(fields) {
				break
			}
			rec.Set(fields[i], cleanCell(cell))
		}
		records = append(records, rec)
	}
	return records, nil
}

// cleanCell trims whitespace and replaces invalid UTF-8 sequences.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, "\uFFFD"))
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
