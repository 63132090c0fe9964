package exporter

import (
	"fmt"
	"io"

	"github.com/guttosm/tradeledger/internal/domain/dto"
	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds exported trades.
const SheetName = "trades"

// WriteXLSX writes a workbook with a single "trades" sheet: the same header
// as the CSV output, then one row per record. Numbers stay numeric; absent
// values are left blank.
func WriteXLSX(w io.Writer, records []models.TradeRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]interface{}, len(dto.TradeRecordFields))
	for i, h := range dto.TradeRecordFields {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxRow(dto.NewTradeRecordResponse(r))); err != nil {
			return fmt.Errorf("write trade %d: %w", r.ID, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxRow(r dto.TradeRecordResponse) []interface{} {
	return []interface{}{
		r.ID,
		deref(r.TradeAccountID),
		deref(r.Ticket),
		deref(r.SymbolName),
		deref(r.Digits),
		deref(r.Type),
		deref(r.Quantity),
		deref(r.State),
		deref(r.OpenTime),
		deref(r.OpenPrice),
		deref(r.OpenRate),
		deref(r.CloseTime),
		deref(r.ClosePrice),
		deref(r.CloseRate),
		deref(r.StopLoss),
		deref(r.TakeProfit),
		deref(r.Expiration),
		deref(r.Commission),
		deref(r.CommissionAgent),
		deref(r.Swap),
		deref(r.Profit),
		deref(r.Tax),
		deref(r.Magic),
		deref(r.Comment),
		deref(r.Timestamp),
		r.IsClosed,
	}
}

// deref returns *p, or nil for a nil pointer so the cell stays empty.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
