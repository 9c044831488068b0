package lanes

// Code identifies a single lane-layout validation rule. Codes are
// stable identifiers consumed by error catalogs and API clients.
type Code string

const (
	// CodePinFallTypeRequired indicates a range without a pin fall type.
	CodePinFallTypeRequired Code = "LaneRange.PinFallType.Required"
	// CodeStartLaneMustBeOdd indicates a range starting on an even lane.
	CodeStartLaneMustBeOdd Code = "LaneRange.StartLane.MustBeOdd"
	// CodeEndLaneMustBeEven indicates a range ending on an odd lane.
	CodeEndLaneMustBeEven Code = "LaneRange.EndLane.MustBeEven"
	// CodeEndLaneMustExceedStartLane indicates an end lane at or before
	// the start lane.
	CodeEndLaneMustExceedStartLane Code = "LaneRange.EndLane.MustExceedStartLane"
	// CodeRangesRequired indicates a configuration without ranges.
	CodeRangesRequired Code = "LaneConfiguration.Ranges.Required"
	// CodeRangesOverlapping indicates two ranges sharing lane numbers.
	CodeRangesOverlapping Code = "LaneConfiguration.Ranges.Overlapping"
	// CodeRangesAdjacent indicates two contiguous ranges sharing a pin
	// fall type.
	CodeRangesAdjacent Code = "LaneConfiguration.Ranges.Adjacent"
)

// Error is a lane-layout validation failure with structured metadata.
// Matching is by code, so errors.Is works against the sentinel values
// below regardless of attached metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrPinFallTypeRequired indicates a range without a pin fall type.
	ErrPinFallTypeRequired = &Error{Code: CodePinFallTypeRequired, Message: "pin fall type is required"}
	// ErrStartLaneMustBeOdd indicates a range starting on an even lane.
	ErrStartLaneMustBeOdd = &Error{Code: CodeStartLaneMustBeOdd, Message: "start lane must be odd"}
	// ErrEndLaneMustBeEven indicates a range ending on an odd lane.
	ErrEndLaneMustBeEven = &Error{Code: CodeEndLaneMustBeEven, Message: "end lane must be even"}
	// ErrEndLaneMustExceedStartLane indicates an end lane at or before
	// the start lane.
	ErrEndLaneMustExceedStartLane = &Error{Code: CodeEndLaneMustExceedStartLane, Message: "end lane must be greater than start lane"}
	// ErrRangesRequired indicates a configuration without ranges.
	ErrRangesRequired = &Error{Code: CodeRangesRequired, Message: "at least one lane range is required"}
	// ErrRangesOverlapping indicates two ranges sharing lane numbers.
	ErrRangesOverlapping = &Error{Code: CodeRangesOverlapping, Message: "lane ranges overlap"}
	// ErrRangesAdjacent indicates two contiguous ranges sharing a pin
	// fall type.
	ErrRangesAdjacent = &Error{Code: CodeRangesAdjacent, Message: "adjacent lane ranges share a pin fall type"}
)

// withMetadata returns a copy of err carrying metadata. Sentinels stay
// untouched so concurrent construction never races on shared state.
func withMetadata(err *Error, metadata map[string]string) *Error {
	return &Error{Code: err.Code, Message: err.Message, Metadata: metadata}
}
