package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var usd = accounting.Accounting{Symbol: "$", Precision: 2}

// FormatUSD renders a decimal amount for display, e.g. "$32.55".
func FormatUSD(amount decimal.Decimal) string {
	return usd.FormatMoneyDecimal(amount)
}
