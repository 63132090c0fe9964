package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/mapper"
	"github.com/guttosm/tradeledger/internal/query"
)

// TradeHistoryRepository reads trade records from the TradeHistories table.
type TradeHistoryRepository interface {
	FindTrades(ctx context.Context, c query.Criteria) ([]models.TradeRecord, error)
	FindTradesBySQL(ctx context.Context, statement string) ([]models.TradeRecord, error)
}

type tradeHistoryRepository struct {
	db      *sql.DB
	dialect query.Dialect
}

// NewTradeHistoryRepository returns a repository over db. The dialect must
// match the driver db was opened with.
func NewTradeHistoryRepository(db *sql.DB, d query.Dialect) TradeHistoryRepository {
	return &tradeHistoryRepository{db: db, dialect: d}
}

// FindTrades runs the parameterized filter query for c.
//
// Returns:
//   - all matching records for the requested page (possibly empty).
//   - *query.ValidationError if c is invalid; nothing is sent to the store.
func (r *tradeHistoryRepository) FindTrades(ctx context.Context, c query.Criteria) ([]models.TradeRecord, error) {
	st, err := query.Build(c, r.dialect)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTrades(rows, false)
}

// FindTradesBySQL runs a caller supplied SELECT exactly as given.
//
// Behavior:
//   - The text must pass query.CheckStatement, otherwise a
//     *query.ForbiddenStatementError is returned before the store is touched.
//   - An empty result is returned as-is, whatever its columns.
//   - A non-empty result must carry every canonical column
//     (*query.SchemaMismatchError otherwise); extra columns are ignored.
//
// The statement check only looks at the leading keyword. It is not a
// substitute for a read-only database account.
func (r *tradeHistoryRepository) FindTradesBySQL(ctx context.Context, statement string) ([]models.TradeRecord, error) {
	if err := query.CheckStatement(statement); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTrades(rows, true)
}

// scanTrades materializes rows. With checkColumns the column set is
// verified once the first row is known to exist, before any row is mapped.
func scanTrades(rows *sql.Rows, checkColumns bool) ([]models.TradeRecord, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []models.TradeRecord{}
	first := true
	for rows.Next() {
		if first && checkColumns {
			if err := query.CheckColumns(cols); err != nil {
				return nil, err
			}
		}
		first = false

		var raw mapper.RawTrade
		if err := rows.Scan(raw.Targets(cols)...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out)+1, err)
		}
		rec, err := mapper.Map(raw)
		if err != nil {
			return nil, fmt.Errorf("map row %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
