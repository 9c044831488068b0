// Package lanes models how a bowling center's physical lanes are
// organized into numbered ranges and derives bookable lane pairs and
// capacity from them. All types are immutable value objects validated
// at construction; the package performs no I/O and is safe for
// concurrent use without coordination.
package lanes

import (
	"sort"
	"strconv"
)

// LaneConfiguration is the validated lane layout of an entire center.
// Ranges are held sorted ascending by start lane regardless of the
// order they were supplied in.
type LaneConfiguration struct {
	ranges []LaneRange
}

// CreateLaneConfiguration validates the collection of ranges and
// returns an immutable configuration.
//
// # Ordering
//
// The input slice is never modified. A copy is sorted ascending by
// StartLane before validation, so construction is order-independent:
// permuting the input never changes the outcome or the stored order.
//
// # Errors
//
// Validation walks the sorted ranges pairwise left to right and
// returns the first violated rule:
//
//   - ErrRangesRequired when ranges is nil or empty.
//   - ErrRangesOverlapping when a range starts at or before the end of
//     the previous one. Intervals are closed, so sharing even a single
//     lane number is an overlap; ranges that merely touch are not.
//   - ErrRangesAdjacent when a range starts exactly one lane after the
//     previous one ends and both share a pin fall type. Such ranges
//     should have been expressed as one.
//
// Ranges separated by a genuine lane-number gap may share a pin fall
// type; that models a physically split center.
func CreateLaneConfiguration(ranges []LaneRange) (LaneConfiguration, error) {
	if len(ranges) == 0 {
		return LaneConfiguration{}, ErrRangesRequired
	}

	sorted := make([]LaneRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartLane < sorted[j].StartLane
	})

	for i := 0; i < len(sorted)-1; i++ {
		current, next := sorted[i], sorted[i+1]
		if current.EndLane >= next.StartLane {
			return LaneConfiguration{}, withMetadata(ErrRangesOverlapping, map[string]string{
				"first_start_lane":  strconv.Itoa(current.StartLane),
				"first_end_lane":    strconv.Itoa(current.EndLane),
				"second_start_lane": strconv.Itoa(next.StartLane),
				"second_end_lane":   strconv.Itoa(next.EndLane),
			})
		}
		if current.EndLane+1 == next.StartLane && current.PinFallType == next.PinFallType {
			return LaneConfiguration{}, withMetadata(ErrRangesAdjacent, map[string]string{
				"first_end_lane":    strconv.Itoa(current.EndLane),
				"second_start_lane": strconv.Itoa(next.StartLane),
				"pin_fall_type":     current.PinFallType.Code(),
			})
		}
	}

	return LaneConfiguration{ranges: sorted}, nil
}

// Ranges returns the ranges sorted ascending by start lane. The slice
// is a copy; modifying it does not affect the configuration.
func (c LaneConfiguration) Ranges() []LaneRange {
	out := make([]LaneRange, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// TotalPairCount returns the bookable pair capacity across all ranges.
func (c LaneConfiguration) TotalPairCount() int {
	total := 0
	for _, r := range c.ranges {
		total += r.PairCount()
	}
	return total
}

// LanePairs returns every bookable pair across all ranges, ordered by
// lane number.
func (c LaneConfiguration) LanePairs() []LanePair {
	pairs := make([]LanePair, 0, c.TotalPairCount())
	for _, r := range c.ranges {
		pairs = append(pairs, r.LanePairs()...)
	}
	return pairs
}
