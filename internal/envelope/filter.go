package envelope

import (
	"strconv"
	"strings"

	"github.com/budgetflow/backend/internal/types"
	"github.com/rs/zerolog/log"
)

// Filter restricts aggregation to transactions of a fiscal year and month.
// Nil fields do not filter.
type Filter struct {
	Year  *int
	Month *types.FiscalMonth
}

// ParseFilter parses the year and month parameters. Empty values do not
// filter. Invalid values are logged and skipped so that the computation
// continues with a wider scope.
func ParseFilter(year, month string) Filter {
	var f Filter

	year = strings.TrimSpace(year)
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 || y > 9999 {
			log.Warn().Str("year", year).Msg("ignoring invalid year filter")
		} else {
			f.Year = &y
		}
	}

	month = strings.TrimSpace(month)
	if month != "" {
		m, err := types.ParseFiscalMonth(month)
		if err != nil {
			log.Warn().Str("month", month).Err(err).Msg("ignoring invalid month filter")
		} else {
			f.Month = &m
		}
	}

	return f
}
