// Package exporter writes trade records as CSV, JSON lines or XLSX.
package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/guttosm/tradeledger/internal/domain/dto"
	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/spf13/afero"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat accepts csv, jsonl (or ndjson) and xlsx, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format Format, records []models.TradeRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSONL:
		return WriteJSONLines(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile creates (or truncates) path on fs and writes records to it.
// The file is closed on every path; a close error is reported when the
// write itself succeeded.
func WriteFile(fs afero.Fs, path string, format Format, records []models.TradeRecord) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, format, records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes a header row followed by one row per record. An empty
// slice still produces the header.
func WriteCSV(w io.Writer, records []models.TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dto.TradeRecordFields); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(dto.NewTradeRecordResponse(r).CSVRow()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONLines writes one JSON object per line. HTML characters in
// comments are written as-is.
func WriteJSONLines(w io.Writer, records []models.TradeRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(dto.NewTradeRecordResponse(r)); err != nil {
			return fmt.Errorf("encode trade %d: %w", r.ID, err)
		}
	}
	return nil
}
