package discover

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RealDealThreshold is the minimum score a deal needs to be shown at
// all. Vague "specials" with no extractable value land below it.
const RealDealThreshold = 15

var (
	percentPattern    = regexp.MustCompile(`(\d+)\s*%`)
	dollarPattern     = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)
	saveDollarPattern = regexp.MustCompile(`save\s+\$(\d+(?:\.\d+)?)|\$(\d+(?:\.\d+)?)\s+off`)
)

// dealText is the lower-cased text the extraction patterns run over:
// title plus the scraped free-text discount label.
func dealText(d Deal) string {
	return strings.ToLower(d.Title + " " + d.Discount)
}

// effectivePercent resolves the percent discount. Structured percent
// field wins, then the numeric savings field, then an "NN%" pattern in
// the deal text, else 0.
func effectivePercent(d Deal) float64 {
	if d.DiscountType == DiscountPercent && d.DiscountValue > 0 {
		return d.DiscountValue
	}
	if d.SavingsPercent > 0 {
		return d.SavingsPercent
	}
	if m := percentPattern.FindStringSubmatch(dealText(d)); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return 0
}

// effectiveDollar resolves the flat dollar discount. Structured fixed
// field wins, then a "$NN" pattern in the deal text, else 0.
func effectiveDollar(d Deal) float64 {
	if d.DiscountType == DiscountFixed && d.DiscountValue > 0 {
		return d.DiscountValue
	}
	if m := dollarPattern.FindStringSubmatch(dealText(d)); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return 0
}

// actualSavings is original price minus deal price, and only counts
// when a deal price was explicitly provided. Presence, not truthiness:
// an explicit $0 deal price still means "we know the price".
func actualSavings(d Deal) float64 {
	if d.DealPrice == nil {
		return 0
	}
	s := d.OriginalPrice - *d.DealPrice
	if s < 0 {
		return 0
	}
	return s
}

// parseSaveDollar extracts "save $N" / "$N off" phrasing.
func parseSaveDollar(text string) float64 {
	m := saveDollarPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// Score computes a deal's quality score. Deterministic, never
// negative, and every extraction defaults to zero on bad data.
func Score(d Deal) float64 {
	pct := effectivePercent(d)
	dollar := effectiveDollar(d)
	saved := actualSavings(d)
	text := dealText(d)

	score := 0.0

	// Percent tier, first match only.
	switch {
	case pct >= 50:
		score += 100
	case pct >= 40:
		score += 85
	case pct >= 30:
		score += 70
	case pct >= 20:
		score += 55
	case pct >= 10:
		score += 40
	}

	// Dollar tier against the better of stated and computed savings.
	best := dollar
	if saved > best {
		best = saved
	}
	switch {
	case best >= 100:
		score += 90
	case best >= 50:
		score += 70
	case best >= 25:
		score += 50
	case best >= 10:
		score += 30
	}

	// Keyword bonuses stack independently.
	if strings.Contains(text, "free") || d.DiscountType == DiscountFreeItem {
		score += 45
	}
	if strings.Contains(text, "bogo") || strings.Contains(text, "buy one get one") || d.DiscountType == DiscountBOGO {
		score += 60
	}
	if strings.Contains(text, "half price") || strings.Contains(text, "1/2 price") {
		score += 55
	}

	// Concrete pricing is worth more than prose.
	if d.DealPrice != nil && *d.DealPrice > 0 {
		score += 10
		if d.OriginalPrice > 0 {
			score += 15
		}
	}

	if d.Featured {
		score += 25
	}

	// A bare "special" with nothing extractable sinks to the bottom.
	if d.DiscountType == DiscountSpecial && pct == 0 && dollar == 0 && score < 20 {
		score = max(5, score-20)
	}

	return score
}

// IsRealDeal reports whether a deal clears the minimum-value bar.
func IsRealDeal(d Deal) bool {
	return Score(d) >= RealDealThreshold
}

// SavingsLabel is the short badge shown on a deal card.
type SavingsLabel struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// SavingsDisplay derives the badge for a deal. The priority order is
// fixed: structured percent, structured dollar, parsed percent (>=10),
// parsed "save $N"/"$N off" (>=10), FREE, BOGO, half price, raw deal
// price. Nil when nothing applies.
func SavingsDisplay(d Deal) *SavingsLabel {
	text := dealText(d)

	if d.DiscountType == DiscountPercent && d.DiscountValue > 0 {
		return &SavingsLabel{Text: fmt.Sprintf("%.0f%% OFF", d.DiscountValue), Type: "percent"}
	}
	if d.SavingsPercent > 0 {
		return &SavingsLabel{Text: fmt.Sprintf("%.0f%% OFF", d.SavingsPercent), Type: "percent"}
	}
	if d.DiscountType == DiscountFixed && d.DiscountValue > 0 {
		return &SavingsLabel{Text: fmt.Sprintf("SAVE $%.0f", d.DiscountValue), Type: "fixed"}
	}
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 10 {
			return &SavingsLabel{Text: fmt.Sprintf("%.0f%% OFF", v), Type: "percent"}
		}
	}
	if v := parseSaveDollar(text); v >= 10 {
		return &SavingsLabel{Text: fmt.Sprintf("SAVE $%.0f", v), Type: "fixed"}
	}
	if strings.Contains(text, "free") || d.DiscountType == DiscountFreeItem {
		return &SavingsLabel{Text: "FREE", Type: "free"}
	}
	if strings.Contains(text, "bogo") || strings.Contains(text, "buy one get one") || d.DiscountType == DiscountBOGO {
		return &SavingsLabel{Text: "BOGO", Type: "bogo"}
	}
	if strings.Contains(text, "half price") || strings.Contains(text, "1/2 price") {
		return &SavingsLabel{Text: "50% OFF", Type: "percent"}
	}
	if d.DealPrice != nil && *d.DealPrice > 0 {
		return &SavingsLabel{Text: fmt.Sprintf("$%.2f", *d.DealPrice), Type: "price"}
	}
	return nil
}
