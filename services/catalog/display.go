package catalog

// RoundDown floors a review count for display so the number shown to a
// visitor never overstates what was actually measured. Understating is the
// accepted cost. The transform is pure, idempotent and monotonic; it is
// applied at read time only, stored values stay raw.
//
// Tiers: <1k floors to 100s, <10k to 1000s, <50k to 5000s, above that 10000s.
func RoundDown(count int) int {
	if count < 0 {
		return 0
	}
	switch {
	case count < 1_000:
		return count / 100 * 100
	case count < 10_000:
		return count / 1_000 * 1_000
	case count < 50_000:
		return count / 5_000 * 5_000
	default:
		return count / 10_000 * 10_000
	}
}
