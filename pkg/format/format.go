package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display formatting for dashboard values. Undefined (NaN) values render as
// NoData instead of propagating.

// NoData is shown wherever an empty view leaves a value undefined.
const NoData = "no data"

var printer = message.NewPrinter(language.English)

// Money renders a currency amount with thousands separators and no
// fraction digits: 104522.31 -> "$104,522".
func Money(v float64) string {
	if math.IsNaN(v) {
		return NoData
	}
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// Count renders a mean count as a whole number: 501.69 -> "502".
func Count(v float64) string {
	if math.IsNaN(v) {
		return NoData
	}
	return fmt.Sprintf("%.0f", v)
}

// Percent renders a rate as a percentage with two fraction digits:
// 0.0298 -> "2.98%".
func Percent(v float64) string {
	if math.IsNaN(v) {
		return NoData
	}
	return printer.Sprint(number.Percent(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Float renders a plain number for tables, trimming trailing zeros:
// 12.91 -> "12.91", 25 -> "25". NaN renders as NoData.
func Float(v float64) string {
	if math.IsNaN(v) {
		return NoData
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
