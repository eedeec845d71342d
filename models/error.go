package models

import "fmt"

// ValidationError reports a config record that violates an invariant. It is
// returned synchronously from evaluation, before any declaration is produced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// ProviderError wraps a failed provider API call during apply or destroy.
type ProviderError struct {
	Resource ResourceKey
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// DependencyOrderingError indicates a redrive attach was attempted before
// both queues existed. Plans built by evaluation order their declarations so
// this cannot happen; it only surfaces for hand-built plans.
type DependencyOrderingError struct {
	Resource ResourceKey
}

func (e *DependencyOrderingError) Error() string {
	return fmt.Sprintf("dependency ordering violated: %s applied before its dependencies", e.Resource)
}
