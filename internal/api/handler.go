package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/tradeledger/internal/domain/dto"
	"github.com/guttosm/tradeledger/internal/exporter"
	"github.com/guttosm/tradeledger/internal/logger"
	"github.com/guttosm/tradeledger/internal/metrics"
	"github.com/guttosm/tradeledger/internal/middleware"
	"github.com/guttosm/tradeledger/internal/service"
)

// Handler provides HTTP handlers for trade history endpoints.
//
// Responsibilities:
//   - Parse query parameters into search criteria
//   - Call the service layer
//   - Render records as JSON, JSON lines or CSV
//
// Raw SQL is deliberately not reachable from here.
type Handler struct {
	svc     service.TradeHistoryService
	metrics *metrics.Metrics
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc: trade history service.
//   - m: metrics sink; may be nil.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.TradeHistoryService, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// SearchTrades handles GET /api/v1/trades requests.
//
// SearchTrades godoc
// @Summary      Search trade history
// @Description  Filtered, paginated trade history. Times are ISO-8601; naive values are UTC.
// @Tags         trades
// @Produce      json
// @Produce      text/csv
// @Param        account_id    query     int     false  "Trade account id" example(111)
// @Param        ticket        query     int     false  "Ticket" example(3599795)
// @Param        symbol        query     string  false  "Symbol" example(EURUSD)
// @Param        opened_from   query     string  false  "Open time lower bound (inclusive)" example(2023-02-09T00:00:00Z)
// @Param        opened_to     query     string  false  "Open time upper bound (inclusive)"
// @Param        closed_from   query     string  false  "Close time lower bound (inclusive)"
// @Param        closed_to     query     string  false  "Close time upper bound (inclusive)"
// @Param        comment_like  query     string  false  "Comment substring" example(hedge)
// @Param        limit         query     int     false  "Page size (1-10000)" default(100)
// @Param        offset        query     int     false  "Rows to skip" default(0)
// @Param        order_by      query     string  false  "Sort column" Enums(ID, OpenTime, CloseTime, TimeStamp, Ticket) default(OpenTime)
// @Param        order_dir     query     string  false  "Sort direction" Enums(ASC, DESC) default(ASC)
// @Param        format        query     string  false  "Response format" Enums(json, jsonl, csv) default(json)
// @Success      200  {array}   dto.TradeRecordResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse        "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/trades [get]
func (h *Handler) SearchTrades(c *gin.Context) {
	// An empty format means the JSON array response.
	var format exporter.Format
	if raw := c.DefaultQuery("format", "json"); !strings.EqualFold(raw, "json") {
		f, err := exporter.ParseFormat(raw)
		if err == nil && f == exporter.FormatXLSX {
			err = fmt.Errorf("format %q is not served over HTTP", raw)
		}
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid format", err)
			return
		}
		format = f
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameter", err)
		return
	}

	records, err := h.svc.Search(c.Request.Context(), criteria)
	if err != nil {
		// ErrorHandler picks the status.
		_ = c.Error(err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordsServed.Add(float64(len(records)))
	}

	if format == "" {
		c.JSON(http.StatusOK, dto.NewTradeRecordResponses(records))
		return
	}

	c.Status(http.StatusOK)
	switch format {
	case exporter.FormatJSONL:
		c.Header("Content-Type", "application/x-ndjson")
	case exporter.FormatCSV:
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="trades.csv"`)
	}
	if err := exporter.Write(c.Writer, format, records); err != nil {
		// Headers are already out; all that is left is to log it.
		logger.L().Error().Err(err).Str("format", string(format)).Msg("write trades response")
	}
}
