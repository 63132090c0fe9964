// Package query builds the parameterized TradeHistories statement from
// filter criteria and guards user supplied raw statements.
package query

import (
	"fmt"
	"strings"

	"github.com/guttosm/tradeledger/internal/tradetime"
)

// TableName is the source table.
const TableName = "TradeHistories"

// Columns are the canonical TradeHistories columns, in output order.
var Columns = []string{
	"ID", "TradeAccountID", "Ticket", "SymbolName", "Digits", "Type", "Quantity", "State",
	"OpenTime", "OpenPrice", "OpenRate", "CloseTime", "ClosePrice", "CloseRate",
	"StopLoss", "TakeProfit", "Expiration", "Commission", "CommissionAgent",
	"Swap", "Profit", "Tax", "Magic", "Comment", "TimeStamp",
}

// Statement is a SQL text with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// BuildPredicate renders the WHERE conditions for the set fields of c, joined
// with AND, and their arguments. Conditions are always emitted in the same
// order: account, ticket, symbol, open from/to, close from/to, comment.
// With nothing set it returns ("", nil), which matches all rows.
//
// Time bounds are bound in the store's big-int encoding.
func BuildPredicate(c Criteria, d Dialect) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(column, op string, v any) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf("%s %s %s", d.Quote(column), op, d.Placeholder(len(args))))
	}

	if c.AccountID != nil {
		add("TradeAccountID", "=", *c.AccountID)
	}
	if c.Ticket != nil {
		add("Ticket", "=", *c.Ticket)
	}
	if c.Symbol != "" {
		add("SymbolName", "=", c.Symbol)
	}
	if c.OpenedFrom != nil {
		add("OpenTime", ">=", tradetime.EncodeInt(*c.OpenedFrom))
	}
	if c.OpenedTo != nil {
		add("OpenTime", "<=", tradetime.EncodeInt(*c.OpenedTo))
	}
	if c.ClosedFrom != nil {
		add("CloseTime", ">=", tradetime.EncodeInt(*c.ClosedFrom))
	}
	if c.ClosedTo != nil {
		add("CloseTime", "<=", tradetime.EncodeInt(*c.ClosedTo))
	}
	if c.CommentLike != "" {
		add("Comment", "LIKE", "%"+c.CommentLike+"%")
	}

	return strings.Join(clauses, " AND "), args
}

// Build validates c and returns the full SELECT over TradeHistories.
//
// Parameters:
//   - c: filter criteria; validated before anything is rendered.
//   - d: dialect for placeholders and identifier quoting.
//
// Returns:
//   - Statement with every filter value, limit and offset bound as arguments.
//   - *ValidationError when c is out of range.
func Build(c Criteria, d Dialect) (Statement, error) {
	if err := c.Validate(); err != nil {
		return Statement{}, err
	}

	cols := make([]string, len(Columns))
	for i, col := range Columns {
		cols[i] = d.Quote(col)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(d.Quote(TableName))

	where, args := BuildPredicate(c, d)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	// OrderBy and OrderDir passed the allow-list above.
	args = append(args, c.Limit, c.Offset)
	fmt.Fprintf(&sb, " ORDER BY %s %s LIMIT %s OFFSET %s",
		d.Quote(c.OrderBy), c.OrderDir, d.Placeholder(len(args)-1), d.Placeholder(len(args)))

	return Statement{SQL: sb.String(), Args: args}, nil
}
