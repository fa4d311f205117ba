package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
//
// This is commonly used for timeout, interval, and window validation
// where a non-zero, positive value is required.
//
// Parameters:
//   - d: Duration to validate
//
// Returns:
//   - error: nil if valid, error otherwise
//
// Example:
//
//	if err := ValidatePositiveDuration(timeout); err != nil {
//	    return fmt.Errorf("invalid timeout: %w", err)
//	}
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange validates that a value is within a specified range.
//
// The value must be >= min and <= max (inclusive). It is used for bounded
// configuration knobs such as parallelism limits.
//
// Parameters:
//   - v: Value to validate
//   - min: Minimum allowed value (inclusive)
//   - max: Maximum allowed value (inclusive)
//
// Returns:
//   - error: nil if valid, error otherwise
//
// Example:
//
//	if err := ValidateIntRange(maxParallel, 1, 64); err != nil {
//	    return fmt.Errorf("invalid max_parallel: %w", err)
//	}
func ValidateIntRange(v, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if v < min {
		return fmt.Errorf("value %d is below minimum %d", v, min)
	}

	if v > max {
		return fmt.Errorf("value %d exceeds maximum %d", v, max)
	}

	return nil
}
