package automation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEvent      = errors.New("invalid automation event")
	ErrRuleNotFound      = errors.New("automation rule not found")
	ErrExecutionNotFound = errors.New("automation execution not found")
	ErrInvalidRule       = errors.New("invalid automation rule")
)

// InvalidEventError reports a missing required event field
type InvalidEventError struct {
	Field string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid automation event: %s is required", e.Field)
}

func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}

// RuleSelectionError wraps a store failure while loading candidate rules
type RuleSelectionError struct {
	Err error
}

func (e *RuleSelectionError) Error() string {
	return fmt.Sprintf("rule selection failed: %v", e.Err)
}

func (e *RuleSelectionError) Unwrap() error {
	return e.Err
}

func invalidRule(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRule, fmt.Sprintf(format, args...))
}
