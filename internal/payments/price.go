package payments

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders a minor-unit amount as a localized price string,
// e.g. 1999 + "gbp" becomes "£19.99". Unknown currency codes fall back to
// the code itself as the symbol.
func FormatAmount(minorUnits int64, code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		p := message.NewPrinter(language.English)
		return p.Sprintf("%s %.2f", strings.ToUpper(code), float64(minorUnits)/100)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(float64(minorUnits)/100)))
}
