package main

// recordWeight appends a weight sample to the history, deduplicating by day.
//
// When the last entry already carries the same date, the weight is overwritten
// only if it actually changed — a same-day same-value write leaves the history
// identical rather than looking like a fresh sample. The history is kept in
// ascending date order and this function assumes date >= the last entry's
// date (append-mostly ledger); out-of-order insertion is not supported.
// Returns a new slice; the input is never mutated.
func recordWeight(history []weightSample, date string, weight float64) []weightSample {
	out := make([]weightSample, len(history))
	copy(out, history)

	if n := len(out); n > 0 && out[n-1].Date == date {
		if out[n-1].Weight != weight {
			out[n-1].Weight = weight
		}
		return out
	}
	return append(out, weightSample{Date: date, Weight: weight})
}
