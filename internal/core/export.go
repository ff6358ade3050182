package core

// export.go builds the CSV document for selected rows and hands it to a
// FileExporter.
//
// Two encodings are supported:
//
//   - ExportQuoted (default): RFC 4180 quoting via encoding/csv, so values
//     containing commas, quotes, or newlines survive a round trip.
//   - ExportLiteral: plain comma concatenation with no escaping. Values with
//     embedded commas or newlines corrupt the column layout.
//
// Both encodings join lines with "\n" and emit no trailing newline.

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export file metadata handed to the exporter.
const (
	ExportFilename = "selected_data.csv"
	ExportMIMEType = "text/csv;charset=utf-8"
)

// ErrNoRowsSelected is returned by Export when the selection is empty.
// Nothing is saved and the caller's state is unchanged.
var ErrNoRowsSelected = errors.New("no rows selected for export")

// ExportMode selects how field values are encoded.
type ExportMode string

const (
	ExportQuoted  ExportMode = "quoted"
	ExportLiteral ExportMode = "literal"
)

// ParseExportMode parses a mode name; empty means ExportQuoted.
func ParseExportMode(s string) (ExportMode, error) {
	switch ExportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportQuoted:
		return ExportQuoted, nil
	case ExportLiteral:
		return ExportLiteral, nil
	default:
		return "", fmt.Errorf("unknown export mode %q (want quoted or literal)", s)
	}
}

// FileExporter materializes a document as a named file.
type FileExporter interface {
	Save(ctx context.Context, data []byte, filename, mimeType string) error
}

// ExportResult describes a completed export.
type ExportResult struct {
	Filename string
	Rows     int
	Bytes    int
}

// BuildDocument renders the header line and one line per record, with
// columns in declared order.
func BuildDocument(records []StandardRecord, mode ExportMode) ([]byte, error) {
	cols := Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}

	lines := make([][]string, 0, len(records)+1)
	lines = append(lines, header)
	for _, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = rec.Value(c.Field)
		}
		lines = append(lines, row)
	}

	if mode == ExportLiteral {
		out := make([]string, len(lines))
		for i, l := range lines {
			out[i] = strings.Join(l, ",")
		}
		return []byte(strings.Join(out, "\n")), nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(lines); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Export resolves the selection against the full dataset (not the filtered
// view), builds the document, and saves it as ExportFilename.
func Export(ctx context.Context, ds *Dataset, sel Selection, mode ExportMode, exp FileExporter) (ExportResult, error) {
	if sel.Empty() {
		return ExportResult{}, ErrNoRowsSelected
	}

	records := ds.Resolve(sel.IDs())
	data, err := BuildDocument(records, mode)
	if err != nil {
		return ExportResult{}, err
	}

	if err := exp.Save(ctx, data, ExportFilename, ExportMIMEType); err != nil {
		return ExportResult{}, fmt.Errorf("save %s: %w", ExportFilename, err)
	}

	return ExportResult{
		Filename: ExportFilename,
		Rows:     len(records),
		Bytes:    len(data),
	}, nil
}

// DiskExporter writes exports into a directory.
type DiskExporter struct {
	Dir string
}

// Path returns where filename is written.
func (e DiskExporter) Path(filename string) string {
	return filepath.Join(e.Dir, filepath.Base(filename))
}

// Save writes data to Dir/filename through a temp file and rename, so a
// reader never sees a partial file. mimeType is ignored.
func (e DiskExporter) Save(ctx context.Context, data []byte, filename, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(e.Dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod export: %w", err)
	}
	return os.Rename(tmp.Name(), e.Path(filename))
}
