package framework

import (
	"errors"
	"fmt"
)

// MismatchKind says which part of an expectation a response failed.
type MismatchKind string

const (
	MismatchStatus         MismatchKind = "status"
	MismatchJSON           MismatchKind = "json"
	MismatchHeader         MismatchKind = "header"
	MismatchBody           MismatchKind = "body"
	MismatchLatency        MismatchKind = "latency"
	MismatchInfrastructure MismatchKind = "infrastructure"
)

// MismatchError describes one way in which an actual response differed from what a test
// expected.
type MismatchError struct {
	Kind     MismatchKind
	Expected string
	Actual   string
	Detail   string
}

func (e MismatchError) Error() string {
	msg := fmt.Sprintf("%s mismatch", e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf("\nexpected: %s\nactual:   %s", e.Expected, e.Actual)
	}
	return msg
}

// InfrastructureError means that the system under test could not be reached at all, as
// opposed to returning something unexpected.
type InfrastructureError struct {
	Method string
	URL    string
	Err    error
}

func (e InfrastructureError) Error() string {
	return fmt.Sprintf("could not reach system under test (%s %s): %s", e.Method, e.URL, e.Err)
}

func (e InfrastructureError) Unwrap() error {
	return e.Err
}

// KnownDefectFixedError is reported when a response that was whitelisted as a known
// defect no longer reproduces. The whitelist entry should be removed.
type KnownDefectFixedError struct {
	Description string
	Mismatches  []MismatchError
}

func (e KnownDefectFixedError) Error() string {
	msg := fmt.Sprintf("known defect no longer reproduces (%s); the service may have been fixed and this expectation should be removed", e.Description)
	for _, m := range e.Mismatches {
		msg += "\n" + m.Error()
	}
	return msg
}

// FailureCategory classifies an error recorded against a test, for reporting.
func FailureCategory(err error) MismatchKind {
	var infra InfrastructureError
	if errors.As(err, &infra) {
		return MismatchInfrastructure
	}
	var m MismatchError
	if errors.As(err, &m) {
		return m.Kind
	}
	return ""
}
