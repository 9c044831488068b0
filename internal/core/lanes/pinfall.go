package lanes

import "fmt"

// PinFallType identifies the pinsetter equipment category of a lane range.
type PinFallType int

const (
	// PinFallTypeUnspecified represents a missing pin fall type.
	PinFallTypeUnspecified PinFallType = iota
	// PinFallTypeFreeFall identifies free-fall pinsetter equipment.
	PinFallTypeFreeFall
	// PinFallTypeStringPin identifies string-pin pinsetter equipment.
	PinFallTypeStringPin
)

// Code returns the stable external code used for storage and transport.
func (t PinFallType) Code() string {
	switch t {
	case PinFallTypeFreeFall:
		return "FF"
	case PinFallTypeStringPin:
		return "SP"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (t PinFallType) String() string {
	switch t {
	case PinFallTypeFreeFall:
		return "FREE_FALL"
	case PinFallTypeStringPin:
		return "STRING_PIN"
	default:
		return "UNSPECIFIED"
	}
}

// ParsePinFallType maps a stable external code back to its PinFallType.
func ParsePinFallType(code string) (PinFallType, error) {
	switch code {
	case "FF":
		return PinFallTypeFreeFall, nil
	case "SP":
		return PinFallTypeStringPin, nil
	default:
		return PinFallTypeUnspecified, fmt.Errorf("unknown pin fall type code %q", code)
	}
}
