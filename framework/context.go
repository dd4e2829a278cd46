package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the framework's equivalent of *testing.T. Domain-specific test APIs wrap it.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	knownDefect string
	errors      []error
	hasSubtests bool
}

// Run executes a root action and returns the accumulated results of every subtest that
// it started with Context.Run.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

// record adds the test to the results. A test that only groups subtests is not counted
// unless it failed or was skipped in its own right.
func (c *Context) record() {
	if len(c.id.Path) == 0 {
		return
	}
	if c.hasSubtests && !c.failed && !c.skipped && c.knownDefect == "" {
		return
	}
	result := TestResult{
		TestID:      c.id,
		Errors:      c.errors,
		Skipped:     c.skipped,
		SkipReason:  c.skipReason,
		KnownDefect: c.knownDefect,
	}
	c.env.results.Tests = append(c.env.results.Tests, result)
	switch {
	case c.failed:
		c.env.results.Failures = append(c.env.results.Failures, result)
	case c.knownDefect != "" && !c.skipped:
		c.env.results.KnownDefects = append(c.env.results.KnownDefects, result)
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Run starts a subtest. Subtests run synchronously, in the order they are started.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}
	c.hasSubtests = true

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c1 := &Context{id: id, env: c.env, skipped: true, skipReason: "excluded by filter parameters"}
		c1.record()
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	c1.record()
	switch {
	case c1.skipped:
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	default:
		if c1.knownDefect != "" && !c1.failed {
			c.env.testLogger.TestKnownDefect(id, c1.knownDefect)
		}
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.Fail(fmt.Errorf(format, args...))
}

// Fail records an error without stopping the test. Unlike Errorf, the error value is kept
// as-is, so typed errors such as MismatchError can be classified in the results.
func (c *Context) Fail(err error) {
	c.failed = true
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// NoteKnownDefect marks the test as having reproduced a documented defect in the system
// under test. If the test does not otherwise fail, it is reported as a known defect rather
// than as a pass or a failure.
func (c *Context) NoteKnownDefect(description string) {
	c.knownDefect = description
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
