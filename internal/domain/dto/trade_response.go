package dto

import (
	"strconv"

	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/tradetime"
)

// TradeRecordResponse is the serialized form of a TradeRecord, shared by the
// JSON, JSON-lines, CSV and XLSX outputs.
//
// Temporal fields are ISO-8601 UTC strings with millisecond precision and a
// Z suffix. Absent values serialize as JSON null and as empty CSV cells.
type TradeRecordResponse struct {
	ID              int64    `json:"id" example:"9209"`
	TradeAccountID  *int64   `json:"trade_account_id" example:"111"`
	Ticket          *int64   `json:"ticket" example:"3599795"`
	SymbolName      *string  `json:"symbol_name" example:"EURUSD"`
	Digits          *int64   `json:"digits"`
	Type            *int64   `json:"type"`
	Quantity        *float64 `json:"quantity"`
	State           *int64   `json:"state"`
	OpenTime        *string  `json:"open_time" example:"2023-02-09T08:43:34.000Z"`
	OpenPrice       *float64 `json:"open_price"`
	OpenRate        *float64 `json:"open_rate"`
	CloseTime       *string  `json:"close_time" example:"2023-02-09T09:02:57.000Z"`
	ClosePrice      *float64 `json:"close_price"`
	CloseRate       *float64 `json:"close_rate"`
	StopLoss        *float64 `json:"stop_loss"`
	TakeProfit      *float64 `json:"take_profit"`
	Expiration      *string  `json:"expiration"`
	Commission      *float64 `json:"commission"`
	CommissionAgent *float64 `json:"commission_agent"`
	Swap            *float64 `json:"swap"`
	Profit          *float64 `json:"profit"`
	Tax             *float64 `json:"tax"`
	Magic           *int64   `json:"magic" example:"3599793"`
	Comment         *string  `json:"comment" example:"close hedge by #3599791"`
	Timestamp       *string  `json:"timestamp" example:"2023-02-09T09:02:57.000Z"`
	IsClosed        bool     `json:"is_closed" example:"true"`
}

// TradeRecordFields is the column header for tabular outputs, in the same
// order as CSVRow.
var TradeRecordFields = []string{
	"id", "trade_account_id", "ticket", "symbol_name", "digits", "type", "quantity", "state",
	"open_time", "open_price", "open_rate", "close_time", "close_price", "close_rate",
	"stop_loss", "take_profit", "expiration", "commission", "commission_agent",
	"swap", "profit", "tax", "magic", "comment", "timestamp", "is_closed",
}

// NewTradeRecordResponse converts a record, computing is_closed.
func NewTradeRecordResponse(t models.TradeRecord) TradeRecordResponse {
	return TradeRecordResponse{
		ID:              t.ID,
		TradeAccountID:  t.TradeAccountID,
		Ticket:          t.Ticket,
		SymbolName:      t.SymbolName,
		Digits:          t.Digits,
		Type:            t.Type,
		Quantity:        t.Quantity,
		State:           t.State,
		OpenTime:        tradetime.FormatISOOptional(t.OpenTime),
		OpenPrice:       t.OpenPrice,
		OpenRate:        t.OpenRate,
		CloseTime:       tradetime.FormatISOOptional(t.CloseTime),
		ClosePrice:      t.ClosePrice,
		CloseRate:       t.CloseRate,
		StopLoss:        t.StopLoss,
		TakeProfit:      t.TakeProfit,
		Expiration:      tradetime.FormatISOOptional(t.Expiration),
		Commission:      t.Commission,
		CommissionAgent: t.CommissionAgent,
		Swap:            t.Swap,
		Profit:          t.Profit,
		Tax:             t.Tax,
		Magic:           t.Magic,
		Comment:         t.Comment,
		Timestamp:       tradetime.FormatISOOptional(t.Timestamp),
		IsClosed:        t.IsClosed(),
	}
}

// NewTradeRecordResponses converts a slice, never returning nil so an empty
// result encodes as [].
func NewTradeRecordResponses(records []models.TradeRecord) []TradeRecordResponse {
	out := make([]TradeRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewTradeRecordResponse(r))
	}
	return out
}

// CSVRow renders the record as text cells in TradeRecordFields order.
func (r TradeRecordResponse) CSVRow() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		intCell(r.TradeAccountID),
		intCell(r.Ticket),
		strCell(r.SymbolName),
		intCell(r.Digits),
		intCell(r.Type),
		floatCell(r.Quantity),
		intCell(r.State),
		strCell(r.OpenTime),
		floatCell(r.OpenPrice),
		floatCell(r.OpenRate),
		strCell(r.CloseTime),
		floatCell(r.ClosePrice),
		floatCell(r.CloseRate),
		floatCell(r.StopLoss),
		floatCell(r.TakeProfit),
		strCell(r.Expiration),
		floatCell(r.Commission),
		floatCell(r.CommissionAgent),
		floatCell(r.Swap),
		floatCell(r.Profit),
		floatCell(r.Tax),
		intCell(r.Magic),
		strCell(r.Comment),
		strCell(r.Timestamp),
		strconv.FormatBool(r.IsClosed),
	}
}

func intCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
