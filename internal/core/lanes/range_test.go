package lanes

import (
	"errors"
	"testing"
)

func TestCreateLaneRangeValidation(t *testing.T) {
	tests := []struct {
		name      string
		startLane int
		endLane   int
		pinFall   PinFallType
		err       error
	}{
		{
			name:      "minimal valid range",
			startLane: 1,
			endLane:   2,
			pinFall:   PinFallTypeFreeFall,
		},
		{
			name:      "multi pair range",
			startLane: 3,
			endLane:   8,
			pinFall:   PinFallTypeStringPin,
		},
		{
			name:      "missing pin fall type",
			startLane: 1,
			endLane:   2,
			pinFall:   PinFallTypeUnspecified,
			err:       ErrPinFallTypeRequired,
		},
		{
			name:      "even start lane",
			startLane: 2,
			endLane:   8,
			pinFall:   PinFallTypeFreeFall,
			err:       ErrStartLaneMustBeOdd,
		},
		{
			name:      "zero start lane",
			startLane: 0,
			endLane:   8,
			pinFall:   PinFallTypeFreeFall,
			err:       ErrStartLaneMustBeOdd,
		},
		{
			name:      "negative even start lane",
			startLane: -4,
			endLane:   8,
			pinFall:   PinFallTypeFreeFall,
			err:       ErrStartLaneMustBeOdd,
		},
		{
			name:      "odd end lane",
			startLane: 1,
			endLane:   7,
			pinFall:   PinFallTypeFreeFall,
			err:       ErrEndLaneMustBeEven,
		},
		{
			name:      "end lane below start lane",
			startLane: 5,
			endLane:   4,
			pinFall:   PinFallTypeFreeFall,
			err:       ErrEndLaneMustExceedStartLane,
		},
		{
			name:      "pin fall type checked before parity",
			startLane: 2,
			endLane:   7,
			pinFall:   PinFallTypeUnspecified,
			err:       ErrPinFallTypeRequired,
		},
		{
			name:      "start lane checked before end lane",
			startLane: 2,
			endLane:   7,
			pinFall:   PinFallTypeFreeFall,
			err:       ErrStartLaneMustBeOdd,
		},
		{
			// Parity alone does not reject negative lanes; the range is
			// accepted as long as the end exceeds the start.
			name:      "negative odd start lane passes parity",
			startLane: -3,
			endLane:   2,
			pinFall:   PinFallTypeFreeFall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CreateLaneRange(tt.startLane, tt.endLane, tt.pinFall)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected error %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create lane range: %v", err)
			}
			if r.StartLane != tt.startLane || r.EndLane != tt.endLane {
				t.Fatalf("expected lanes %d-%d, got %d-%d", tt.startLane, tt.endLane, r.StartLane, r.EndLane)
			}
			if r.PinFallType != tt.pinFall {
				t.Fatalf("expected pin fall type %v, got %v", tt.pinFall, r.PinFallType)
			}
		})
	}
}

func TestCreateLaneRangeErrorMetadata(t *testing.T) {
	_, err := CreateLaneRange(5, 4, PinFallTypeFreeFall)

	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vErr.Code != CodeEndLaneMustExceedStartLane {
		t.Fatalf("expected code %q, got %q", CodeEndLaneMustExceedStartLane, vErr.Code)
	}
	if vErr.Metadata["start_lane"] != "5" || vErr.Metadata["end_lane"] != "4" {
		t.Fatalf("expected lane metadata, got %v", vErr.Metadata)
	}
}

func TestLaneRangePairCount(t *testing.T) {
	tests := []struct {
		name      string
		startLane int
		endLane   int
		want      int
	}{
		{name: "single pair", startLane: 1, endLane: 2, want: 1},
		{name: "three pairs", startLane: 3, endLane: 8, want: 3},
		{name: "five pairs", startLane: 1, endLane: 10, want: 5},
		{name: "offset start", startLane: 13, endLane: 20, want: 4},
		{name: "negative start", startLane: -3, endLane: 2, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CreateLaneRange(tt.startLane, tt.endLane, PinFallTypeFreeFall)
			if err != nil {
				t.Fatalf("create lane range: %v", err)
			}
			if got := r.PairCount(); got != tt.want {
				t.Fatalf("expected %d pairs, got %d", tt.want, got)
			}
		})
	}
}

func TestLaneRangeLanePairs(t *testing.T) {
	r, err := CreateLaneRange(3, 8, PinFallTypeFreeFall)
	if err != nil {
		t.Fatalf("create lane range: %v", err)
	}

	want := []LanePair{{Odd: 3, Even: 4}, {Odd: 5, Even: 6}, {Odd: 7, Even: 8}}
	got := r.LanePairs()
	if len(got) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(got))
	}
	for i, pair := range want {
		if got[i] != pair {
			t.Fatalf("pair %d: expected %v, got %v", i, pair, got[i])
		}
	}
	if len(got) != r.PairCount() {
		t.Fatalf("expected pair list length %d to match pair count %d", len(got), r.PairCount())
	}
}

func TestLaneRangeLanePairsRestartable(t *testing.T) {
	r, err := CreateLaneRange(1, 6, PinFallTypeStringPin)
	if err != nil {
		t.Fatalf("create lane range: %v", err)
	}

	first := r.LanePairs()
	first[0] = LanePair{Odd: 99, Even: 100}

	second := r.LanePairs()
	if second[0] != (LanePair{Odd: 1, Even: 2}) {
		t.Fatalf("expected fresh pairs on each call, got %v", second[0])
	}
	if len(second) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(second))
	}
}
