package enrich

import "github.com/jonboulle/clockwork"

// clock is the package time source used for ProcessedAt stamps. Tests swap
// in a fake via SetClock for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
