package service

import (
	"context"
	"time"

	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/logger"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/storage"
	"github.com/guttosm/tradeledger/internal/tradetime"
)

// TradeHistoryService is the entry point for reading trade history, used by
// both the export command and the HTTP API.
type TradeHistoryService interface {
	// Search runs the filtered, paginated query.
	Search(ctx context.Context, c query.Criteria) ([]models.TradeRecord, error)
	// Select runs a caller supplied read-only statement.
	Select(ctx context.Context, statement string) ([]models.TradeRecord, error)
}

type tradeHistoryService struct {
	repo storage.TradeHistoryRepository
}

func NewTradeHistoryService(repo storage.TradeHistoryRepository) TradeHistoryService {
	return &tradeHistoryService{repo: repo}
}

func (s *tradeHistoryService) Search(ctx context.Context, c query.Criteria) ([]models.TradeRecord, error) {
	start := time.Now()
	out, err := s.repo.FindTrades(ctx, c)
	if err != nil {
		logger.L().Error().Err(err).Msg("trade search failed")
		return nil, err
	}
	logger.L().Info().
		Int("records", len(out)).
		Int("limit", c.Limit).
		Int("offset", c.Offset).
		Str("order_by", c.OrderBy).
		Interface("opened_from", tradetime.EncodeOptional(c.OpenedFrom)).
		Interface("opened_to", tradetime.EncodeOptional(c.OpenedTo)).
		Interface("closed_from", tradetime.EncodeOptional(c.ClosedFrom)).
		Interface("closed_to", tradetime.EncodeOptional(c.ClosedTo)).
		Int64("took_ms", time.Since(start).Milliseconds()).
		Msg("trade search")
	return out, nil
}

func (s *tradeHistoryService) Select(ctx context.Context, statement string) ([]models.TradeRecord, error) {
	start := time.Now()
	out, err := s.repo.FindTradesBySQL(ctx, statement)
	if err != nil {
		logger.L().Error().Err(err).Msg("raw trade query failed")
		return nil, err
	}
	logger.L().Info().
		Int("records", len(out)).
		Int64("took_ms", time.Since(start).Milliseconds()).
		Msg("raw trade query")
	return out, nil
}
