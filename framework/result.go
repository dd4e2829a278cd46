package framework

import (
	"fmt"
	"strings"
)

type Results struct {
	Tests        []TestResult
	Failures     []TestResult
	KnownDefects []TestResult

	// Aborted is set if the run could not establish its baseline (for instance, if sign-in
	// did not produce a session), in which case no tests were executed.
	Aborted error
}

type TestResult struct {
	TestID      TestID
	Errors      []error
	Skipped     bool
	SkipReason  string
	KnownDefect string
}

func (r Results) OK() bool {
	return r.Aborted == nil && len(r.Failures) == 0
}

// Skipped returns the results of all tests that were skipped.
func (r Results) Skipped() []TestResult {
	var ret []TestResult
	for _, t := range r.Tests {
		if t.Skipped {
			ret = append(ret, t)
		}
	}
	return ret
}

// OnlyLatencyFailures is true if the test failed, but only because of response-time
// ceilings and not because of anything the service returned.
func (t TestResult) OnlyLatencyFailures() bool {
	if len(t.Errors) == 0 {
		return false
	}
	for _, e := range t.Errors {
		if FailureCategory(e) != MismatchLatency {
			return false
		}
	}
	return true
}

// HasInfrastructureFailure is true if any of the test's errors means that the system under
// test could not be reached.
func (t TestResult) HasInfrastructureFailure() bool {
	for _, e := range t.Errors {
		if FailureCategory(e) == MismatchInfrastructure {
			return true
		}
	}
	return false
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
