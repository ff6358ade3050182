// Package dataset loads the standards records the table displays.
//
// Records come from one of three places, checked in this order at startup:
//
//   - a file named by DATASET_PATH (.yaml, .yml, .json, .toml, or .csv,
//     optionally compressed as .gz or .zst);
//   - a PostgreSQL table, when DATABASE_URL is set (see [LoadPostgres]);
//   - the embedded sample dataset ([Embedded]).
//
// Every source produces the same thing: an ordered slice of records whose
// attributes are plain strings. Non-string values (numbers, dates, lists)
// are coerced once at load time so the filter engine only ever compares
// text.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a dataset file with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// ErrUnknownColumn is returned when a key or header names no table column.
var ErrUnknownColumn = errors.New("unknown column")

// Format identifies a dataset encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

//go:embed standards.yaml
var embedded []byte

// file is the document shape of YAML, JSON, and TOML datasets.
type file struct {
	Records []map[string]any `yaml:"records" json:"records" toml:"records"`
}

// Embedded returns the sample dataset compiled into the binary.
func Embedded() (*core.Dataset, error) {
	return Decode(bytes.NewReader(embedded), FormatYAML)
}

// compression suffixes recognised after the format extension.
const (
	extGzip = ".gz"
	extZstd = ".zst"
)

// FormatFromPath picks a format from a file extension, looking past a
// trailing .gz or .zst.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == extGzip || ext == extZstd {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Load reads a dataset file.
func Load(path string) (*core.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r, closeFn, err := decompress(f, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	defer closeFn()

	ds, err := Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// decompress wraps r in a decoder chosen by the path's last extension.
func decompress(r io.Reader, path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case extZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open zstd: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return r, func() {}, nil
	}
}

// Decode reads a dataset in the given format.
func Decode(r io.Reader, format Format) (*core.Dataset, error) {
	var (
		records []core.StandardRecord
		err     error
	)

	switch format {
	case FormatYAML:
		records, err = decodeYAML(r)
	case FormatJSON:
		records, err = decodeJSON(r)
	case FormatTOML:
		records, err = decodeTOML(r)
	case FormatCSV:
		records, err = decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return core.NewDataset(records)
}

func decodeYAML(r io.Reader) ([]core.StandardRecord, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return fromMaps(doc.Records)
}

// decodeJSON accepts either {"records": [...]} or a bare array. Comments and
// trailing commas are allowed.
func decodeJSON(r io.Reader) ([]core.StandardRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var maps []map[string]any
	trimmed := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &maps)
	} else {
		var doc file
		err = json.Unmarshal(trimmed, &doc)
		maps = doc.Records
	}
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return fromMaps(maps)
}

// decodeTOML reads [[records]] tables.
func decodeTOML(r io.Reader) ([]core.StandardRecord, error) {
	var doc file
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return fromMaps(doc.Records)
}

func fromMaps(maps []map[string]any) ([]core.StandardRecord, error) {
	records := make([]core.StandardRecord, 0, len(maps))
	for i, m := range maps {
		var rec core.StandardRecord
		for key, val := range m {
			field, ok := resolveColumn(key)
			if !ok {
				return nil, fmt.Errorf("record %d: %w %q", i+1, ErrUnknownColumn, key)
			}
			rec.Set(field, Stringify(val))
		}
		records = append(records, rec)
	}
	return records, nil
}

// resolveColumn maps a field name or header label (case-insensitive) to the
// column's field name.
func resolveColumn(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if c, ok := core.ColumnByField(key); ok {
		return c.Field, true
	}
	for _, c := range core.Columns() {
		if strings.EqualFold(c.Header, key) {
			return c.Field, true
		}
	}
	return "", false
}

// Stringify renders a decoded value as the text the table displays.
// Lists are joined with ", " and dates use YYYY-MM-DD.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format("2006-01-02")
	case toml.LocalDate:
		return val.String()
	case toml.LocalDateTime:
		return val.LocalDate.String()
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case pgtype.Text:
		if !val.Valid {
			return ""
		}
		return strings.TrimSpace(val.String)
	case pgtype.Date:
		if !val.Valid {
			return ""
		}
		return val.Time.Format("2006-01-02")
	case pgtype.Timestamptz:
		if !val.Valid {
			return ""
		}
		return val.Time.Format("2006-01-02")
	default:
		return fmt.Sprint(val)
	}
}
