package stockroom

import (
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func costPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newSeeded() (*Stockroom, error) {
	return FromSnapshot(DefaultSnapshot(DateOf(testNow), testNow), WithClock(fixedClock))
}
