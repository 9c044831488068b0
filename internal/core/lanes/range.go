package lanes

import "strconv"

// LaneRange is one contiguous numbered span of lanes served by a single
// pin fall equipment type. Values are stored exactly as given to
// CreateLaneRange; a changed span is represented by constructing a new
// range. Equality is structural.
type LaneRange struct {
	StartLane   int
	EndLane     int
	PinFallType PinFallType
}

// LanePair is two adjacent lanes sharing a pinsetter pit, the smallest
// bookable unit of a center.
type LanePair struct {
	Odd  int
	Even int
}

// CreateLaneRange validates the bounds and returns an immutable range.
//
// # Errors
//
// Validation is fail-fast and returns the first violated rule:
//
//   - ErrPinFallTypeRequired when pinFallType is unspecified.
//   - ErrStartLaneMustBeOdd when startLane is not odd. This is a pure
//     parity test; negative odd values pass it.
//   - ErrEndLaneMustBeEven when endLane is not even.
//   - ErrEndLaneMustExceedStartLane when endLane is not strictly
//     greater than startLane.
func CreateLaneRange(startLane, endLane int, pinFallType PinFallType) (LaneRange, error) {
	if pinFallType == PinFallTypeUnspecified {
		return LaneRange{}, ErrPinFallTypeRequired
	}
	if startLane%2 == 0 {
		return LaneRange{}, withMetadata(ErrStartLaneMustBeOdd, map[string]string{
			"start_lane": strconv.Itoa(startLane),
		})
	}
	if endLane%2 != 0 {
		return LaneRange{}, withMetadata(ErrEndLaneMustBeEven, map[string]string{
			"end_lane": strconv.Itoa(endLane),
		})
	}
	if endLane <= startLane {
		return LaneRange{}, withMetadata(ErrEndLaneMustExceedStartLane, map[string]string{
			"start_lane": strconv.Itoa(startLane),
			"end_lane":   strconv.Itoa(endLane),
		})
	}

	return LaneRange{
		StartLane:   startLane,
		EndLane:     endLane,
		PinFallType: pinFallType,
	}, nil
}

// PairCount returns the number of bookable lane pairs in the range.
// The odd-to-even span always divides exactly.
func (r LaneRange) PairCount() int {
	return (r.EndLane - r.StartLane + 1) / 2
}

// LanePairs returns the ordered (odd, even) lane tuples covered by the
// range. The slice is rebuilt on every call, so callers may modify it
// freely.
func (r LaneRange) LanePairs() []LanePair {
	pairs := make([]LanePair, 0, r.PairCount())
	for lane := r.StartLane; lane < r.EndLane; lane += 2 {
		pairs = append(pairs, LanePair{Odd: lane, Even: lane + 1})
	}
	return pairs
}
