package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProviderFailure = errors.New("data provider failure")
	ErrInvalidPair     = errors.New("invalid platform/brand pair")
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrInvalidConfig   = errors.New("invalid forecast config")
)

// ProviderError reports a failed sales or inventory read for one pair.
type ProviderError struct {
	Source string // "sales" or "inventory"
	Pair   Pair
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider failed for %s: %v", e.Source, e.Pair, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailure
}
