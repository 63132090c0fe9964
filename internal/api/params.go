package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/tradetime"
)

// criteriaFromQuery reads search criteria from the query string, starting
// from query.DefaultCriteria. It only checks that values parse; ranges and
// allow-lists are enforced by query.Criteria.Validate further down.
func criteriaFromQuery(c *gin.Context) (query.Criteria, error) {
	cr := query.DefaultCriteria()

	var err error
	if cr.AccountID, err = optInt64(c, "account_id"); err != nil {
		return cr, err
	}
	if cr.Ticket, err = optInt64(c, "ticket"); err != nil {
		return cr, err
	}
	cr.Symbol = strings.TrimSpace(c.Query("symbol"))
	cr.CommentLike = c.Query("comment_like")

	times := []struct {
		param string
		dst   **time.Time
	}{
		{"opened_from", &cr.OpenedFrom},
		{"opened_to", &cr.OpenedTo},
		{"closed_from", &cr.ClosedFrom},
		{"closed_to", &cr.ClosedTo},
	}
	for _, p := range times {
		s := c.Query(p.param)
		if s == "" {
			continue
		}
		t, err := tradetime.ParseISO(s)
		if err != nil {
			return cr, fmt.Errorf("%s: %w", p.param, err)
		}
		*p.dst = &t
	}

	if s := c.Query("limit"); s != "" {
		if cr.Limit, err = strconv.Atoi(s); err != nil {
			return cr, fmt.Errorf("limit: %q is not an integer", s)
		}
	}
	if s := c.Query("offset"); s != "" {
		if cr.Offset, err = strconv.Atoi(s); err != nil {
			return cr, fmt.Errorf("offset: %q is not an integer", s)
		}
	}
	if s := c.Query("order_by"); s != "" {
		cr.OrderBy = s
	}
	if s := c.Query("order_dir"); s != "" {
		cr.OrderDir = s
	}

	return cr, nil
}

func optInt64(c *gin.Context, param string) (*int64, error) {
	s := strings.TrimSpace(c.Query(param))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not an integer", param, s)
	}
	return &n, nil
}
