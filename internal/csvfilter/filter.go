// Package csvfilter removes system and cancelled trades from a CSV export.
//
// A row is dropped when its magic number is zero or its comment says
// cancelled (see Schema.Decide). Everything else, including rows whose
// cells cannot be parsed, is written back unchanged. Files are streamed in
// chunks so memory use does not grow with input size.
package csvfilter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Filter runs the drop rules over CSV streams and files.
type Filter struct {
	fs   afero.Fs
	opts Options
	enc  encoding.Encoding
	log  zerolog.Logger
}

// New returns a Filter working on fs. Zero option fields take their
// defaults; an unknown encoding is an error.
func New(fs afero.Fs, opts Options) (*Filter, error) {
	opts = opts.withDefaults()
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Filter{
		fs:   fs,
		opts: opts,
		enc:  enc,
		log:  logger.Component("csvfilter"),
	}, nil
}

// Run filters r into w.
//
// The header is read first and always written, even when no data row
// survives. Rows are then read in chunks of Options.ChunkSize; each chunk is
// filtered and flushed before the next one is read. A cancelled ctx stops
// the run between rows.
//
// Returns:
//   - FilterResult with row counters (Input/Output left empty).
//   - *MissingColumnError if the header has no magic column.
func (f *Filter) Run(ctx context.Context, r io.Reader, w io.Writer) (models.FilterResult, error) {
	var res models.FilterResult

	var tw *transform.Writer
	if f.enc != nil {
		r = transform.NewReader(r, f.enc.NewDecoder())
		tw = transform.NewWriter(w, f.enc.NewEncoder())
		w = tw
	}

	cr := csv.NewReader(r)
	cr.Comma = f.opts.Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	cw := csv.NewWriter(w)
	cw.Comma = f.opts.Separator

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, fmt.Errorf("read header: empty input")
		}
		return res, fmt.Errorf("read header: %w", err)
	}
	schema, err := NewSchema(header, f.opts.NullValues)
	if err != nil {
		return res, err
	}
	if err := cw.Write(header); err != nil {
		return res, fmt.Errorf("write header: %w", err)
	}

	chunk := make([][]string, 0, min(f.opts.ChunkSize, 4096))
	chunks := 0

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		for _, row := range chunk {
			switch schema.Decide(row) {
			case DropMagic:
				res.DroppedMagic++
				continue
			case DropCancelled:
				res.DroppedCancelled++
				continue
			}
			if err := cw.Write(row); err != nil {
				return err
			}
			res.RowsWritten++
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		chunks++
		f.log.Debug().Int("chunk", chunks).Int("rows", len(chunk)).Int("rows_read", res.RowsRead).Msg("chunk filtered")
		chunk = chunk[:0]
		return nil
	}

	line := 1 // header
	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++
		res.RowsRead++

		chunk = append(chunk, rec)
		if len(chunk) >= f.opts.ChunkSize {
			if err := flush(); err != nil {
				return res, fmt.Errorf("write chunk ending line %d: %w", line, err)
			}
		}
	}

	if err := flush(); err != nil {
		return res, fmt.Errorf("write final chunk: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return res, fmt.Errorf("flush output: %w", err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return res, fmt.Errorf("encode output: %w", err)
		}
	}
	return res, nil
}

// DefaultOutputPath is "<input without extension>.filtered.csv".
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".filtered.csv"
}

// FilterFile filters input into output (DefaultOutputPath when empty).
//
// An existing output file is replaced. If the run fails the partially
// written output is left where it is.
func (f *Filter) FilterFile(ctx context.Context, input, output string) (models.FilterResult, error) {
	if output == "" {
		output = DefaultOutputPath(input)
	}
	res := models.FilterResult{Input: input, Output: output}

	if _, err := f.fs.Stat(input); err != nil {
		if os.IsNotExist(err) {
			return res, fmt.Errorf("file not found: %s", input)
		}
		return res, fmt.Errorf("stat %s: %w", input, err)
	}
	if filepath.Clean(input) == filepath.Clean(output) {
		return res, fmt.Errorf("output %s is the input file; use in-place mode to overwrite it", output)
	}

	if err := f.fs.Remove(output); err != nil && !os.IsNotExist(err) {
		return res, fmt.Errorf("remove existing output: %w", err)
	}
	out, err := f.fs.Create(output)
	if err != nil {
		return res, fmt.Errorf("create %s: %w", output, err)
	}

	counts, err := f.filterInto(ctx, input, out)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close %s: %w", output, cerr)
	}
	res = withCounts(res, counts)
	if err != nil {
		return res, err
	}

	f.log.Info().Str("input", input).Str("output", output).
		Int("rows_read", res.RowsRead).Int("rows_written", res.RowsWritten).
		Msgf("Read %d rows, wrote %d rows -> %s", res.RowsRead, res.RowsWritten, output)
	return res, nil
}

// FilterInPlace rewrites input with only the kept rows.
//
// Output goes to a temporary file next to input which is renamed over it
// once the whole input has been read. On any error the temporary file is
// removed and input is left untouched. The original file mode is kept.
func (f *Filter) FilterInPlace(ctx context.Context, input string) (models.FilterResult, error) {
	res := models.FilterResult{Input: input, Output: input}

	info, err := f.fs.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return res, fmt.Errorf("file not found: %s", input)
		}
		return res, fmt.Errorf("stat %s: %w", input, err)
	}

	tmp, err := afero.TempFile(f.fs, filepath.Dir(input), "."+filepath.Base(input)+".*.tmp")
	if err != nil {
		return res, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	counts, err := f.filterInto(ctx, input, tmp)
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close temp file: %w", cerr)
	}
	if err == nil {
		err = f.fs.Chmod(tmpName, info.Mode().Perm())
	}
	if err == nil {
		err = f.fs.Rename(tmpName, input)
	}
	res = withCounts(res, counts)
	if err != nil {
		_ = f.fs.Remove(tmpName)
		return res, err
	}

	f.log.Info().Str("input", input).
		Int("rows_read", res.RowsRead).Int("rows_written", res.RowsWritten).
		Msgf("Overwritten: %s", input)
	return res, nil
}

// filterInto runs the filter from the input path into an already open
// output. The input is closed before returning.
func (f *Filter) filterInto(ctx context.Context, input string, out io.Writer) (models.FilterResult, error) {
	in, err := f.fs.Open(input)
	if err != nil {
		return models.FilterResult{}, fmt.Errorf("open %s: %w", input, err)
	}
	defer func() { _ = in.Close() }()

	res, err := f.Run(ctx, in, out)
	if err != nil {
		return res, fmt.Errorf("filter %s: %w", input, err)
	}
	return res, nil
}

func withCounts(res, counts models.FilterResult) models.FilterResult {
	res.RowsRead = counts.RowsRead
	res.RowsWritten = counts.RowsWritten
	res.DroppedMagic = counts.DroppedMagic
	res.DroppedCancelled = counts.DroppedCancelled
	return res
}
