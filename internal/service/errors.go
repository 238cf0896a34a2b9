package service

import (
	"errors"
	"fmt"
)

// ErrUpstream matches any UpstreamError via errors.Is.
var ErrUpstream = errors.New("upstream failure")

// UpstreamError reports a collaborator failure that the composer could not
// recover from.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
