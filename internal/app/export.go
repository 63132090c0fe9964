package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/exporter"
	"github.com/guttosm/tradeledger/internal/logger"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/service"
	"github.com/spf13/afero"
)

// ExportOptions selects the records to export and where they go.
//
// When SQL is set the statement runs as-is after the read-only guard and
// Criteria is ignored. JSON lines are written to stdout when JSONL is set
// or when neither CSVOut nor XLSXOut is.
type ExportOptions struct {
	SQL      string
	Criteria query.Criteria
	CSVOut   string
	XLSXOut  string
	JSONL    bool
}

// ExportResult summarizes a finished export.
type ExportResult struct {
	Records     int
	SystemMagic int // records whose Magic is the 0 sentinel
	Files       []string
}

// RunExport fetches trade records through svc and writes them out.
//
// Parameters:
//   - ctx: cancels the store query.
//   - svc: trade history service.
//   - fs: filesystem for the file outputs.
//   - opts: selection and outputs.
//   - stdout: destination for JSON lines.
//
// Behavior:
//   - All records are fetched before anything is written.
//   - Each requested file is written in full; the first failure stops the run.
//
// Returns the record count and the files written.
func RunExport(ctx context.Context, svc service.TradeHistoryService, fs afero.Fs, opts ExportOptions, stdout io.Writer) (ExportResult, error) {
	var (
		records []models.TradeRecord
		err     error
	)
	if opts.SQL != "" {
		records, err = svc.Select(ctx, opts.SQL)
	} else {
		records, err = svc.Search(ctx, opts.Criteria)
	}
	if err != nil {
		return ExportResult{}, err
	}

	res := ExportResult{Records: len(records)}
	for _, r := range records {
		if r.HasSystemMagic() {
			res.SystemMagic++
		}
	}
	log := logger.Component("export")

	outputs := []struct {
		path   string
		format exporter.Format
	}{
		{opts.CSVOut, exporter.FormatCSV},
		{opts.XLSXOut, exporter.FormatXLSX},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := exporter.WriteFile(fs, o.path, o.format, records); err != nil {
			return res, err
		}
		res.Files = append(res.Files, o.path)
		log.Info().Str("format", string(o.format)).Str("path", o.path).Int("records", len(records)).Msg("export written")
	}

	if opts.JSONL || len(res.Files) == 0 {
		if stdout == nil {
			return res, errors.New("no writer for JSON lines output")
		}
		if err := exporter.WriteJSONLines(stdout, records); err != nil {
			return res, fmt.Errorf("write json lines: %w", err)
		}
	}

	return res, nil
}
