package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// nowFn anchors the default date window; tests pin it.
var nowFn = time.Now

const defaultWindowDays = 7

func tickerParam(c *gin.Context) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		return "", fmt.Errorf("ticker is required")
	}
	return ticker, nil
}

// dateRange reads data_inicio and data_fim (YYYY-MM-DD). When neither is
// sent the range defaults to the 7 days ending yesterday (UTC). A start date
// alone has no upper bound.
func dateRange(c *gin.Context) (start, end *time.Time, err error) {
	if start, err = dateParam(c, "data_inicio"); err != nil {
		return nil, nil, err
	}
	if end, err = dateParam(c, "data_fim"); err != nil {
		return nil, nil, err
	}
	if start == nil && end == nil {
		s, e := defaultWindow(nowFn())
		return &s, &e, nil
	}
	return start, end, nil
}

func dateParam(c *gin.Context, name string) (*time.Time, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format, expected YYYY-MM-DD", name)
	}
	return &d, nil
}

func defaultWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	end = time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, 0, -(defaultWindowDays - 1))
	return start, end
}

// limitParam returns 0 when limit is absent; the service applies its default
// and clamps the rest.
func limitParam(c *gin.Context) (int, error) {
	s := strings.TrimSpace(c.Query("limit"))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q, expected an integer", s)
	}
	return n, nil
}
