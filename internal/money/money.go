// Package money formats whole-dollar amounts for user-facing text.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders n as US dollars with thousands separators, e.g. "$90,000".
// Negative amounts render as "-$1,500".
func Format(n int) string {
	if n < 0 {
		return "-" + printer.Sprintf("$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// Percent renders p as a whole percentage, e.g. "12%".
func Percent(p int) string {
	return printer.Sprintf("%d%%", p)
}
