// Package mapper turns TradeHistories result rows into models.TradeRecord.
//
// Rows are scanned into RawTrade, a struct of nullable text cells keyed by
// canonical column name, and only then coerced to typed fields. Nothing
// downstream ever sees an untyped row.
package mapper

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/tradetime"
)

// ErrMissingID is returned when a row has a NULL or empty ID.
var ErrMissingID = errors.New("trade row has no ID")

// RawTrade holds one row as scanned from the store. Every cell is nullable
// text; drivers hand back ints, floats and byte slices, all of which
// database/sql converts to string on Scan.
type RawTrade struct {
	ID              sql.NullString
	TradeAccountID  sql.NullString
	Ticket          sql.NullString
	SymbolName      sql.NullString
	Digits          sql.NullString
	Type            sql.NullString
	Quantity        sql.NullString
	State           sql.NullString
	OpenTime        sql.NullString
	OpenPrice       sql.NullString
	OpenRate        sql.NullString
	CloseTime       sql.NullString
	ClosePrice      sql.NullString
	CloseRate       sql.NullString
	StopLoss        sql.NullString
	TakeProfit      sql.NullString
	Expiration      sql.NullString
	Commission      sql.NullString
	CommissionAgent sql.NullString
	Swap            sql.NullString
	Profit          sql.NullString
	Tax             sql.NullString
	Magic           sql.NullString
	Comment         sql.NullString
	TimeStamp       sql.NullString
}

// cell returns the field for a canonical column name, or nil.
func (r *RawTrade) cell(column string) *sql.NullString {
	switch column {
	case "ID":
		return &r.ID
	case "TradeAccountID":
		return &r.TradeAccountID
	case "Ticket":
		return &r.Ticket
	case "SymbolName":
		return &r.SymbolName
	case "Digits":
		return &r.Digits
	case "Type":
		return &r.Type
	case "Quantity":
		return &r.Quantity
	case "State":
		return &r.State
	case "OpenTime":
		return &r.OpenTime
	case "OpenPrice":
		return &r.OpenPrice
	case "OpenRate":
		return &r.OpenRate
	case "CloseTime":
		return &r.CloseTime
	case "ClosePrice":
		return &r.ClosePrice
	case "CloseRate":
		return &r.CloseRate
	case "StopLoss":
		return &r.StopLoss
	case "TakeProfit":
		return &r.TakeProfit
	case "Expiration":
		return &r.Expiration
	case "Commission":
		return &r.Commission
	case "CommissionAgent":
		return &r.CommissionAgent
	case "Swap":
		return &r.Swap
	case "Profit":
		return &r.Profit
	case "Tax":
		return &r.Tax
	case "Magic":
		return &r.Magic
	case "Comment":
		return &r.Comment
	case "TimeStamp":
		return &r.TimeStamp
	default:
		return nil
	}
}

// Targets returns rows.Scan destinations for the given result columns.
// Columns that are not canonical are scanned and discarded.
func (r *RawTrade) Targets(columns []string) []any {
	dest := make([]any, len(columns))
	for i, c := range columns {
		if f := r.cell(c); f != nil {
			dest[i] = f
		} else {
			dest[i] = new(any)
		}
	}
	return dest
}

// Set stores a text value for a canonical column. Unknown columns are ignored.
func (r *RawTrade) Set(column, value string) {
	if f := r.cell(column); f != nil {
		*f = sql.NullString{String: value, Valid: true}
	}
}

// Map coerces a RawTrade into a TradeRecord.
//
// Behavior:
//   - NULL cells, and empty text cells, become nil fields.
//   - Integer columns accept integral float text ("5.0").
//   - Temporal columns go through tradetime.DecodeValue, so the 0 and epoch
//     sentinels become nil.
//   - A NULL ID or any unparsable cell is an error naming the column.
func Map(raw RawTrade) (models.TradeRecord, error) {
	var (
		rec models.TradeRecord
		err error
	)

	id, err := optInt("ID", raw.ID)
	if err != nil {
		return rec, err
	}
	if id == nil {
		return rec, ErrMissingID
	}
	rec.ID = *id

	ints := []struct {
		column string
		cell   sql.NullString
		dst    **int64
	}{
		{"TradeAccountID", raw.TradeAccountID, &rec.TradeAccountID},
		{"Ticket", raw.Ticket, &rec.Ticket},
		{"Digits", raw.Digits, &rec.Digits},
		{"Type", raw.Type, &rec.Type},
		{"State", raw.State, &rec.State},
		{"Magic", raw.Magic, &rec.Magic},
	}
	for _, f := range ints {
		if *f.dst, err = optInt(f.column, f.cell); err != nil {
			return rec, fmt.Errorf("trade %d: %w", rec.ID, err)
		}
	}

	floats := []struct {
		column string
		cell   sql.NullString
		dst    **float64
	}{
		{"Quantity", raw.Quantity, &rec.Quantity},
		{"OpenPrice", raw.OpenPrice, &rec.OpenPrice},
		{"OpenRate", raw.OpenRate, &rec.OpenRate},
		{"ClosePrice", raw.ClosePrice, &rec.ClosePrice},
		{"CloseRate", raw.CloseRate, &rec.CloseRate},
		{"StopLoss", raw.StopLoss, &rec.StopLoss},
		{"TakeProfit", raw.TakeProfit, &rec.TakeProfit},
		{"Commission", raw.Commission, &rec.Commission},
		{"CommissionAgent", raw.CommissionAgent, &rec.CommissionAgent},
		{"Swap", raw.Swap, &rec.Swap},
		{"Profit", raw.Profit, &rec.Profit},
		{"Tax", raw.Tax, &rec.Tax},
	}
	for _, f := range floats {
		if *f.dst, err = optFloat(f.column, f.cell); err != nil {
			return rec, fmt.Errorf("trade %d: %w", rec.ID, err)
		}
	}

	times := []struct {
		column string
		cell   sql.NullString
		dst    **time.Time
	}{
		{"OpenTime", raw.OpenTime, &rec.OpenTime},
		{"CloseTime", raw.CloseTime, &rec.CloseTime},
		{"Expiration", raw.Expiration, &rec.Expiration},
		{"TimeStamp", raw.TimeStamp, &rec.Timestamp},
	}
	for _, f := range times {
		v, _ := f.cell.Value() // NULL is nil
		if *f.dst, err = tradetime.DecodeValue(v); err != nil {
			return rec, fmt.Errorf("trade %d: column %s: %w", rec.ID, f.column, err)
		}
	}

	rec.SymbolName = optString(raw.SymbolName)
	rec.Comment = optString(raw.Comment)

	return rec, nil
}

func optString(c sql.NullString) *string {
	if !c.Valid || c.String == "" {
		return nil
	}
	s := c.String
	return &s
}

func optInt(column string, c sql.NullString) (*int64, error) {
	if !c.Valid {
		return nil, nil
	}
	s := strings.TrimSpace(c.String)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	// 2^63 is exact in float64; anything at or beyond it does not fit.
	if err != nil || f != math.Trunc(f) || f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
		return nil, fmt.Errorf("column %s: %q is not an integer", column, c.String)
	}
	n := int64(f)
	return &n, nil
}

func optFloat(column string, c sql.NullString) (*float64, error) {
	if !c.Valid {
		return nil, nil
	}
	s := strings.TrimSpace(c.String)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %q is not a number", column, c.String)
	}
	return &f, nil
}
