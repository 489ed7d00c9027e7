package models

import (
	"fmt"
	"regexp"
	"strings"
)

// B3 tickers: four letters, one or two digits, optional fractional-lot "F".
var tickerPattern = regexp.MustCompile(`^[A-Z]{4}\d{1,2}F?$`)

// NormalizeTicker uppercases, trims and strips the ".SA" exchange suffix, and
// rejects anything that is not a B3 ticker.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	t = strings.TrimSuffix(t, ".SA")
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}
	return t, nil
}

// YahooSymbol returns the exchange-qualified symbol used by global providers.
func YahooSymbol(ticker string) string {
	return ticker + ".SA"
}
