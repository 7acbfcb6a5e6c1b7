package numfmt

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Count groups thousands with a space: 12345 -> "12 345".
func Count(n int) string {
	return strings.ReplaceAll(printer.Sprintf("%d", n), ",", " ")
}

// Minutes prints a value with two decimals and grouped thousands.
func Minutes(v float64) string {
	return strings.ReplaceAll(printer.Sprintf("%.2f", v), ",", " ")
}
