package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice prints minor units as whole dollars with grouping.
func FormatPrice(cents int64) string {
	if cents <= 0 {
		return "Call for pricing"
	}
	return printer.Sprintf("$%d", cents/100)
}

// FormatAmount is FormatPrice without the pricing placeholder.
func FormatAmount(cents int64) string {
	if cents < 0 {
		return "-" + FormatAmount(-cents)
	}
	return printer.Sprintf("$%d", cents/100)
}

func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func FormatBaths(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// SpecLine renders "4 bd | 2.5 ba | 2,450 sq ft", omitting zero values.
func SpecLine(beds int, baths float64, sqft int) string {
	parts := make([]string, 0, 3)
	if beds > 0 {
		parts = append(parts, strconv.Itoa(beds)+" bd")
	}
	if baths > 0 {
		parts = append(parts, FormatBaths(baths)+" ba")
	}
	if sqft > 0 {
		parts = append(parts, FormatCount(sqft)+" sq ft")
	}
	return strings.Join(parts, " | ")
}
