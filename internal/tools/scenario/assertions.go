package scenario

import (
	"fmt"
	"log"
	"strings"
)

// AssertionMode controls how failed expectations are reported.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first failed expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs failed expectations and keeps running.
	AssertionLogOnly
)

// String returns the flag spelling of the mode.
func (m AssertionMode) String() string {
	switch m {
	case AssertionLogOnly:
		return "log"
	default:
		return "strict"
	}
}

// ParseAssertionMode parses "strict" or "log".
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "strict":
		return AssertionStrict, nil
	case "log", "log-only", "log_only":
		return AssertionLogOnly, nil
	default:
		return AssertionStrict, fmt.Errorf("unknown assertion mode %q", value)
	}
}

// Assertions reports expectation failures according to Mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
	// Failures counts expectations that failed in log-only mode.
	Failures int
}

// Failf returns an error regardless of mode. Use it for broken scenarios.
func (a *Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf returns an error in strict mode and logs otherwise.
func (a *Assertions) Assertf(format string, args ...any) error {
	if a.Mode == AssertionStrict {
		return fmt.Errorf(format, args...)
	}
	a.Failures++
	if a.Logger != nil {
		a.Logger.Printf("assertion failed: "+format, args...)
	}
	return nil
}
