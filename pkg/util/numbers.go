package util

import (
	"math"
	"strconv"
	"strings"
)

var magnitudeSuffixes = []struct {
	suffix string
	mult   float64
}{
	{"trilhões", 1e12}, {"trilhão", 1e12}, {"tri", 1e12},
	{"bilhões", 1e9}, {"bilhão", 1e9}, {"bi", 1e9}, {"b", 1e9},
	{"milhões", 1e6}, {"milhão", 1e6}, {"mi", 1e6}, {"m", 1e6},
	{"mil", 1e3}, {"k", 1e3},
}

// ParseBRNumber parses a pt-BR formatted number ("1.234,56", "-0,5", "R$ 12,30",
// "12,5%", "1,2 B"). Placeholders such as "-" and "--" yield ok=false.
func ParseBRNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.NewReplacer("r$", "", "%", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" || s == "-" || s == "--" || s == "n/a" || s == "nd" {
		return 0, false
	}

	mult := 1.0
	for _, m := range magnitudeSuffixes {
		if strings.HasSuffix(s, m.suffix) {
			head := strings.TrimSuffix(s, m.suffix)
			if head != "" && strings.ContainsAny(head[len(head)-1:], "0123456789") {
				s = head
				mult = m.mult
				break
			}
		}
	}

	// Thousands separator is '.', decimal separator is ','.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 || looksLikeThousands(s) {
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * mult, true
}

// looksLikeThousands reports "1.234"-style input where the single dot
// groups thousands rather than separating decimals.
func looksLikeThousands(s string) bool {
	i := strings.IndexByte(s, '.')
	if i < 0 || len(s)-i-1 != 3 {
		return false
	}
	head := strings.TrimPrefix(s[:i], "-")
	return head != "" && head != "0"
}

// BRNumberPtr is ParseBRNumber returning nil on failure.
func BRNumberPtr(s string) *float64 {
	v, ok := ParseBRNumber(s)
	if !ok {
		return nil
	}
	return &v
}

// FractionToPercent converts a 0..1 ratio into the 0..100 scale.
func FractionToPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

