package config

import (
	"fmt"
	"time"
)

// ValidateDurationRange validates that a duration is within [min, max].
//
// Example:
//
//	if err := ValidateDurationRange(interval, 10*time.Millisecond, time.Minute); err != nil {
//	    return fmt.Errorf("invalid watch interval: %w", err)
//	}
func ValidateDurationRange(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if d < min {
		return fmt.Errorf("duration %v is below minimum %v", d, min)
	}
	if d > max {
		return fmt.Errorf("duration %v exceeds maximum %v", d, max)
	}
	return nil
}
