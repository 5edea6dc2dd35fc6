package prompt

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// formatNumber renders v with digit grouping, dropping a zero fraction.
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e18 {
		return printer.Sprintf("%d", int64(v))
	}
	s := printer.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

var (
	koDigits     = []string{"", "일", "이", "삼", "사", "오", "육", "칠", "팔", "구"}
	koSmallUnits = []string{"", "십", "백", "천"}
	koLargeUnits = []string{"", "만", "억", "조", "경"}
)

// SpokenWon reads an amount of 원 the way it is said aloud,
// e.g. 3500000 -> "삼백오십만 원".
func SpokenWon(amount int64) string {
	if amount == 0 {
		return "영 원"
	}
	prefix := ""
	if amount < 0 {
		prefix = "마이너스 "
		if amount == math.MinInt64 {
			amount = math.MaxInt64
		} else {
			amount = -amount
		}
	}
	groups := make([]string, 0, len(koLargeUnits))
	for unit := 0; amount > 0 && unit < len(koLargeUnits); unit++ {
		g := int(amount % 10000)
		amount /= 10000
		if g == 0 {
			continue
		}
		text := readGroup(g)
		if unit == 1 && g == 1 {
			text = ""
		}
		groups = append(groups, text+koLargeUnits[unit])
	}
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return prefix + strings.Join(groups, " ") + " 원"
}

func readGroup(n int) string {
	var sb strings.Builder
	for pos := 3; pos >= 0; pos-- {
		div := int(math.Pow10(pos))
		d := (n / div) % 10
		if d == 0 {
			continue
		}
		if d != 1 || pos == 0 {
			sb.WriteString(koDigits[d])
		}
		sb.WriteString(koSmallUnits[pos])
	}
	return sb.String()
}

// wonLine renders "1,234원 (천이백삼십사 원)"; zero stays "0원".
func wonLine(v float64) string {
	s := formatNumber(v) + "원"
	if w := int64(math.Round(v)); w != 0 {
		s += " (" + SpokenWon(w) + ")"
	}
	return s
}

// manwonLine renders an amount given in 만원.
func manwonLine(v float64) string {
	s := formatNumber(v) + "만원"
	if w := int64(math.Round(v * 10000)); w != 0 {
		s += " (" + SpokenWon(w) + ")"
	}
	return s
}
