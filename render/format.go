package render

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Grouped formats v with thousands separators and the given decimals.
func Grouped(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// GroupedInt truncates v toward zero and groups the integer part.
func GroupedInt(v float64) string {
	return printer.Sprintf("%d", int64(v))
}

func Signed(v float64) string {
	return fmt.Sprintf("%+.1f", v)
}

/*
optText
renders an optional payload value. Missing, empty, zero and the placeholder itself all
yield Placeholder; otherwise the value is printed as received followed by unit.
*/
func optText(v any, unit string) string {
	if v == nil {
		return Placeholder
	}
	var text string
	switch val := v.(type) {
	case string:
		text = val
	case float64:
		if val == 0 {
			return Placeholder
		}
		text = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if !val {
			return Placeholder
		}
		text = strconv.FormatBool(val)
	default:
		text = cast.ToString(val)
	}
	if text == "" || text == Placeholder {
		return Placeholder
	}
	return text + " " + unit
}
