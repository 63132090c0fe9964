package app

import (
	"context"
	"errors"

	"github.com/guttosm/tradeledger/config"
	"github.com/guttosm/tradeledger/internal/csvfilter"
	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/spf13/afero"
)

// ErrInPlaceWithOutput is returned when both an output path and in-place
// mode are requested.
var ErrInPlaceWithOutput = errors.New("--inplace cannot be combined with an OUTPUT path")

// FilterRequest names the file to filter and where the result goes.
type FilterRequest struct {
	Input   string
	Output  string
	InPlace bool
}

// FilterOptions turns the filter settings from config into csvfilter.Options.
func FilterOptions(cfg config.FilterConfig) (csvfilter.Options, error) {
	opts := csvfilter.DefaultOptions()
	if cfg.ChunkSize > 0 {
		opts.ChunkSize = cfg.ChunkSize
	}
	if cfg.Encoding != "" {
		opts.Encoding = cfg.Encoding
	}
	if cfg.Separator != "" {
		sep, err := csvfilter.ParseSeparator(cfg.Separator)
		if err != nil {
			return opts, err
		}
		opts.Separator = sep
	}
	opts.NullValues = csvfilter.ParseNullValues(cfg.NullValues)
	return opts, nil
}

// RunFilter drops system-magic and cancelled rows from req.Input.
//
// Returns ErrInPlaceWithOutput before touching any file when req asks for
// both an output path and in-place mode.
func RunFilter(ctx context.Context, fs afero.Fs, cfg config.FilterConfig, req FilterRequest) (models.FilterResult, error) {
	if req.InPlace && req.Output != "" {
		return models.FilterResult{}, ErrInPlaceWithOutput
	}

	opts, err := FilterOptions(cfg)
	if err != nil {
		return models.FilterResult{}, err
	}
	f, err := csvfilter.New(fs, opts)
	if err != nil {
		return models.FilterResult{}, err
	}

	if req.InPlace {
		return f.FilterInPlace(ctx, req.Input)
	}
	return f.FilterFile(ctx, req.Input, req.Output)
}
