package availability

import (
	"iter"
	"time"
)

// Overlaps reports whether slot conflicts with busy. Touching endpoints do not overlap.
func Overlaps(slot CandidateSlot, busy TimeInterval) bool {
	// slot starts inside [busy.Start, busy.End)
	if !slot.Start.Before(busy.Start) && slot.Start.Before(busy.End) {
		return true
	}
	// slot ends inside (busy.Start, busy.End]
	if slot.End.After(busy.Start) && !slot.End.After(busy.End) {
		return true
	}
	// slot encloses busy
	return !slot.Start.After(busy.Start) && !slot.End.Before(busy.End)
}

// FilterAvailable yields the slots that overlap no busy interval and start after now.
// Both slots and busy must be ordered by start; the scan is a single linear merge.
func FilterAvailable(slots iter.Seq[CandidateSlot], busy []TimeInterval, now time.Time) iter.Seq[CandidateSlot] {
	merged := mergeBusy(busy)
	return func(yield func(CandidateSlot) bool) {
		i := 0
		for slot := range slots {
			if !slot.Start.After(now) {
				continue
			}
			for i < len(merged) && !merged[i].End.After(slot.Start) {
				i++
			}
			if i < len(merged) && Overlaps(slot, merged[i]) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}
