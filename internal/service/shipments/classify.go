package shipments

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/cacao/internal/domain/models"
)

var categoryByPrefix = map[string]models.ProductCategory{
	"1801": models.CategoryBeans,
	"1803": models.CategoryLiquor,
	"1804": models.CategoryButter,
	"1805": models.CategoryPowder,
	"1806": models.CategoryChocolate,
}

// serialEpoch is day 2 of the spreadsheet serial calendar. Counting from it
// with an offset of two reproduces the legacy 1900 leap-year quirk.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxSerialDays is the widest day offset a nanosecond timedelta can hold,
// about 292 years either side of the epoch.
const maxSerialDays = float64(math.MaxInt64) / float64(24*time.Hour)

// ClassifyProduct maps a tariff code to its product category using the first
// four digits of its integer value. Empty, unparsable or unmapped codes give
// CategoryOther.
func ClassifyProduct(code string) models.ProductCategory {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.CategoryOther
	}

	value, err := strconv.ParseFloat(code, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= math.MaxInt64 {
		return models.CategoryOther
	}

	digits := strconv.FormatInt(int64(value), 10)
	if len(digits) > 4 {
		digits = digits[:4]
	}

	if category, ok := categoryByPrefix[digits]; ok {
		return category
	}
	return models.CategoryOther
}

// DateFromSerial converts a spreadsheet day serial to a UTC timestamp:
// serial 2 is 1900-01-01. Fractional days are kept as time of day.
func DateFromSerial(serial float64) (time.Time, error) {
	days := serial - 2
	if math.IsNaN(days) || math.Abs(days) >= maxSerialDays {
		return time.Time{}, fmt.Errorf("date serial %v out of range", serial)
	}
	whole, frac := math.Modf(days)
	return serialEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(24*time.Hour))), nil
}

// SeasonLabel names the cocoa season (October to September) a month falls
// in. Months outside 1..12 give models.Unknown.
func SeasonLabel(year, month int) string {
	switch {
	case month >= 10 && month <= 12:
		return fmt.Sprintf("%d-%d", year, year+1)
	case month >= 1 && month <= 9:
		return fmt.Sprintf("%d-%d", year-1, year)
	default:
		return models.Unknown
	}
}
