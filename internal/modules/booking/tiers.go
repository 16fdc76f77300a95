// README: Ride tier price list and cost lookup with explicit fallback.
package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// TierCount is fixed by the remote pricing API: economy, standard, premium.
const TierCount = 3

// TierPrices holds the display strings returned for the three ride tiers,
// e.g. ["$5", "$8", "$20"].
type TierPrices [TierCount]string

// FormatTierPrices renders the remote cost list as display strings.
func FormatTierPrices(costs [TierCount]float64) TierPrices {
	var p TierPrices
	for i, c := range costs {
		if c == float64(int64(c)) {
			p[i] = fmt.Sprintf("$%d", int64(c))
			continue
		}
		p[i] = fmt.Sprintf("$%.2f", c)
	}
	return p
}

// TierIndex parses the string-encoded tier selector. A nil, unparseable, or
// out-of-range selector resolves to tier 0; the original client indexed
// without a guard, so the fallback is made explicit here.
func (p TierPrices) TierIndex(selector *string) int {
	if selector == nil {
		return 0
	}
	idx, err := strconv.Atoi(strings.TrimSpace(*selector))
	if err != nil || idx < 0 || idx >= TierCount {
		return 0
	}
	return idx
}

// CostAt returns the numeric cost for a tier index, or Unresolved when the
// display string carries no number.
func (p TierPrices) CostAt(idx int) int {
	if idx < 0 || idx >= TierCount {
		idx = 0
	}
	return ParseCost(p[idx])
}

// CostFor combines selector parsing and cost lookup.
func (p TierPrices) CostFor(selector *string) int {
	return p.CostAt(p.TierIndex(selector))
}

// ParseCost extracts the numeric amount from a display price like "$8" or
// "$12.50". Fractions round to the nearest unit. Returns Unresolved for
// strings with no parsable amount.
func ParseCost(display string) int {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(display), "$"))
	if s == "" {
		return Unresolved
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Unresolved
	}
	return int(v + 0.5)
}

func formatTierIndex(idx int) string {
	return strconv.Itoa(idx)
}
