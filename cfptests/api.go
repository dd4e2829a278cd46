package cfptests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cfp-server/cfp-contract-tests/framework"
)

type environment struct {
	ctx             context.Context
	executor        *framework.Executor
	session         *framework.Session
	user            TestUser
	maxResponseTime time.Duration
}

// T represents a test or subtest in the finance service test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// convenient for our use case. Those features are provided by our lower-level framework package.
//
// Every T in a run shares the run's session, which holds the credentials obtained at sign-in
// and the ids of resources created by earlier tests.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it
// were a *testing.T. Most tests use Check, which sends a request and evaluates a declarative
// Expectation against the response.
type T struct {
	context *framework.Context
	env     *environment
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// User returns the identity that the run signed in with.
func (t *T) User() TestUser {
	return t.env.user
}

// Send executes a request without evaluating the response. If the service cannot be reached,
// the test fails with an infrastructure error and exits immediately.
func (t *T) Send(req framework.Request) framework.StepResult {
	result := t.env.executor.Execute(t.env.ctx, req, t.context.DebugLogger())
	if !result.Reachable() {
		t.context.Fail(result.TransportErr)
		t.FailNow()
	}
	return result
}

// Expect evaluates a response, recording a failure for every mismatch. It returns true if
// the response matched.
//
// If the expectation describes a known defect, a matching response is recorded as a known
// defect instead of a pass, and a response that does not match fails with an explanation that
// the defect may have been fixed.
func (t *T) Expect(result framework.StepResult, expected framework.Expectation) bool {
	if expected.MaxResponseTime == 0 {
		expected.MaxResponseTime = t.env.maxResponseTime
	}
	verdict := framework.Evaluate(expected, result)

	if expected.KnownDefect == "" {
		for _, m := range verdict.Mismatches {
			t.context.Fail(m)
		}
		return verdict.Passed()
	}

	var correctness []framework.MismatchError
	for _, m := range verdict.Mismatches {
		if m.Kind == framework.MismatchLatency {
			t.context.Fail(m)
		} else {
			correctness = append(correctness, m)
		}
	}
	if len(correctness) != 0 {
		t.context.Fail(framework.KnownDefectFixedError{Description: expected.KnownDefect, Mismatches: correctness})
		return false
	}
	t.context.NoteKnownDefect(expected.KnownDefect)
	return verdict.Passed()
}

// Check sends a request and evaluates the response.
func (t *T) Check(req framework.Request, expected framework.Expectation) framework.StepResult {
	result := t.Send(req)
	t.Expect(result, expected)
	return result
}

// Authorized returns a copy of the request that carries the run's session credentials.
func (t *T) Authorized(req framework.Request) framework.Request {
	return authorize(t.env.session, req)
}

// CheckNotAuthorized sends the request without any credentials and verifies that the service
// rejects it.
func (t *T) CheckNotAuthorized(req framework.Request) {
	t.Check(req, notAuthorizedExpectation())
}

// RequireSessionValue returns a value captured by an earlier test. If there is none, because
// the test that should have produced it failed or was not run, this test is skipped rather
// than failed.
func (t *T) RequireSessionValue(key string) string {
	v, ok := t.env.session.Get(key)
	if !ok {
		t.context.SkipWithReason(fmt.Sprintf("precondition not met: no %s was captured by an earlier test", key))
	}
	return v
}

// SessionValue returns a value captured by an earlier test, if any.
func (t *T) SessionValue(key string) (string, bool) {
	return t.env.session.Get(key)
}

// CaptureFromBody stores an identifier from a response body in the session, looking in each of
// the given properties in turn. If none of them has a value, the test fails.
func (t *T) CaptureFromBody(key string, result framework.StepResult, paths ...string) (string, bool) {
	if id, ok := framework.ExtractString(result.JSON, paths...); ok && t.env.session.Capture(key, id) {
		t.Debug("Captured %s = %s", key, id)
		return id, true
	}
	t.Errorf("response did not contain a value for %s (looked for %s): %s",
		key, strings.Join(paths, ", "), result.BodyText())
	return "", false
}

// Forget removes a captured value, once the resource it identifies no longer exists.
func (t *T) Forget(key string) {
	t.env.session.Forget(key)
}
