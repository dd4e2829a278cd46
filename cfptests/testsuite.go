package cfptests

import (
	"context"
	"time"

	"github.com/cfp-server/cfp-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// SuiteParams configures a run of the test suite.
type SuiteParams struct {
	Executor *framework.Executor
	User     TestUser

	// MaxResponseTime is applied to every request whose expectation does not set its own.
	MaxResponseTime time.Duration

	Loggers    ldlog.Loggers
	Filter     framework.Filter
	TestLogger framework.TestLogger
}

// RunTestSuite authenticates, runs every test group in order, and signs out. If
// authentication fails, no tests run and the returned results are aborted.
func RunTestSuite(ctx context.Context, params SuiteParams) framework.Results {
	flow := NewFlow(params.Executor, params.User, params.Loggers)
	if err := flow.Authenticate(ctx); err != nil {
		return framework.Results{Aborted: err}
	}
	defer flow.TearDown(ctx)

	if err := flow.BeginTests(); err != nil {
		return framework.Results{Aborted: err}
	}

	env := &environment{
		ctx:             ctx,
		executor:        params.Executor,
		session:         flow.Session(),
		user:            params.User,
		maxResponseTime: params.MaxResponseTime,
	}
	return framework.Run(params.Filter, params.TestLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("user", DoUserTests)
		t.Run("category management", DoCategoryTests)
		t.Run("goals/limits management", DoGoalLimitTests)
		t.Run("transactions", DoTransactionTests)
	})
}
