package models

import "time"

// TradeRecord is one row of the TradeHistories table.
//
// Every column except ID is nullable in the store, so optional fields are
// pointers: nil means the column was NULL (or, for temporal fields, carried
// one of the "not set" sentinels).
//
// The four temporal fields are UTC instants with millisecond resolution,
// decoded from the store's big-int encoding.
type TradeRecord struct {
	ID              int64
	TradeAccountID  *int64
	Ticket          *int64
	SymbolName      *string
	Digits          *int64
	Type            *int64
	Quantity        *float64
	State           *int64
	OpenTime        *time.Time
	OpenPrice       *float64
	OpenRate        *float64
	CloseTime       *time.Time
	ClosePrice      *float64
	CloseRate       *float64
	StopLoss        *float64
	TakeProfit      *float64
	Expiration      *time.Time
	Commission      *float64
	CommissionAgent *float64
	Swap            *float64
	Profit          *float64
	Tax             *float64
	Magic           *int64
	Comment         *string
	Timestamp       *time.Time
}

// IsClosed reports whether the trade has both an open and a close time and
// the close is not before the open. It is derived on every call and never
// stored.
func (t TradeRecord) IsClosed() bool {
	if t.OpenTime == nil || t.CloseTime == nil {
		return false
	}
	return !t.CloseTime.Before(*t.OpenTime)
}

// HasSystemMagic reports whether Magic carries the 0 sentinel
// ("unassigned/system"), as opposed to a real magic number or no value.
func (t TradeRecord) HasSystemMagic() bool {
	return t.Magic != nil && *t.Magic == 0
}
