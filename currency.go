package stockroom

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to currency precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

type CurrencyFormatter struct {
	symbol string
}

func NewCurrencyFormatter(symbol string) *CurrencyFormatter {
	if symbol == "" {
		symbol = "$"
	}
	return &CurrencyFormatter{symbol: symbol}
}

func (cf *CurrencyFormatter) Format(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return fmt.Sprintf("-%s%s", cf.symbol, amount.Neg().StringFixed(MoneyPlaces))
	}
	return cf.symbol + amount.StringFixed(MoneyPlaces)
}
