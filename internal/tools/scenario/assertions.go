package scenario

import (
	"fmt"
	"log"
)

// AssertionMode selects how expectation failures are reported.
type AssertionMode int

const (
	// AssertionStrict stops the scenario on the first failed expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs failed expectations and keeps running.
	AssertionLogOnly
)

// Assertions reports expectation outcomes according to the configured mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports an unrecoverable step failure.
func (a Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf reports a failed expectation. In log-only mode the failure is
// logged and the scenario continues.
func (a Assertions) Assertf(format string, args ...any) error {
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("expectation failed: "+format, args...)
		}
		return nil
	}
	return fmt.Errorf(format, args...)
}
