package cfptests

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cfp-server/cfp-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

// Phase is the state of a run's Flow.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseAuthenticated
	PhaseRunning
	PhaseTornDown
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseAuthenticated:
		return "AUTHENTICATED"
	case PhaseRunning:
		return "RUNNING"
	case PhaseTornDown:
		return "TORN_DOWN"
	case PhaseAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// SignUpOutcome classifies the response to the sign-up request made during setup.
type SignUpOutcome int

const (
	SignUpCreated SignUpOutcome = iota
	SignUpAlreadyExists
	SignUpUnexpected
)

func (o SignUpOutcome) String() string {
	switch o {
	case SignUpCreated:
		return "created"
	case SignUpAlreadyExists:
		return "already exists"
	default:
		return "unexpected"
	}
}

// ErrNotAuthenticated means that setup could not obtain a session, so no tests can run.
var ErrNotAuthenticated = errors.New("could not establish an authenticated session")

// Flow sequences the setup and teardown around a run's tests: it signs up and signs in
// before any test, and signs out after the last one. It owns the run's session.
type Flow struct {
	executor *framework.Executor
	user     TestUser
	session  *framework.Session
	loggers  ldlog.Loggers
	debug    framework.Logger
	phase    Phase
}

func NewFlow(executor *framework.Executor, user TestUser, loggers ldlog.Loggers) *Flow {
	return &Flow{
		executor: executor,
		user:     user,
		session:  framework.NewSession(),
		loggers:  loggers,
		debug:    framework.DebugLoggerFor(loggers),
		phase:    PhaseInit,
	}
}

func (f *Flow) Phase() Phase {
	return f.phase
}

func (f *Flow) Session() *framework.Session {
	return f.session
}

// Authenticate moves the flow from INIT to AUTHENTICATED. An account that already exists is
// not a problem; but if sign-in does not produce a cookie or token, the flow is aborted and
// the returned error wraps ErrNotAuthenticated.
func (f *Flow) Authenticate(ctx context.Context) error {
	if f.phase != PhaseInit {
		return fmt.Errorf("cannot authenticate in phase %s", f.phase)
	}

	outcome, detail := classifySignUp(f.executor.Execute(ctx, signUpRequest(f.user), f.debug))
	switch outcome {
	case SignUpCreated:
		f.loggers.Infof("Signed up test user %s", f.user.Email)
	case SignUpAlreadyExists:
		f.loggers.Infof("Test user %s already exists, continuing to sign in", f.user.Email)
	default:
		f.loggers.Warnf("Sign-up of %s returned an unexpected result (%s); attempting sign-in anyway", f.user.Email, detail)
	}

	result := f.executor.Execute(ctx, signInRequest(f.user), f.debug)
	if err := f.captureCredentials(result); err != nil {
		f.phase = PhaseAborted
		f.loggers.Errorf("Aborting test run: %s", err)
		return err
	}
	f.phase = PhaseAuthenticated
	f.loggers.Infof("Signed in as %s", f.user.Email)
	return nil
}

// BeginTests moves the flow from AUTHENTICATED to RUNNING.
func (f *Flow) BeginTests() error {
	if f.phase != PhaseAuthenticated {
		return fmt.Errorf("cannot run tests in phase %s", f.phase)
	}
	f.phase = PhaseRunning
	return nil
}

// TearDown signs out. This is best-effort: a failure is logged and otherwise ignored, since
// it must not change the outcome of the tests that already ran.
func (f *Flow) TearDown(ctx context.Context) {
	if f.phase != PhaseAuthenticated && f.phase != PhaseRunning {
		return
	}
	f.phase = PhaseTornDown

	result := f.executor.Execute(ctx, authorize(f.session, getRequest(pathSignOut)), f.debug)
	switch {
	case !result.Reachable():
		f.loggers.Warnf("Sign-out failed: %s", result.TransportErr)
	case result.Status != http.StatusCreated:
		f.loggers.Warnf("Sign-out returned unexpected status %d: %s", result.Status, result.BodyText())
	default:
		f.loggers.Infof("Signed out")
	}
}

func (f *Flow) captureCredentials(result framework.StepResult) error {
	if !result.Reachable() {
		return fmt.Errorf("%w: %s", ErrNotAuthenticated, result.TransportErr)
	}
	if result.Status != http.StatusOK {
		return fmt.Errorf("%w: sign-in returned status %d: %s", ErrNotAuthenticated, result.Status, result.BodyText())
	}
	gotCookie := f.session.Capture(SessionKeyCookie, sessionCookieHeader(result.Headers))
	token, _ := framework.ExtractString(result.JSON, tokenPaths...)
	gotToken := f.session.Capture(SessionKeyToken, token)
	if !gotCookie && !gotToken {
		return fmt.Errorf("%w: sign-in response contained no session cookie or token", ErrNotAuthenticated)
	}
	return nil
}

func classifySignUp(result framework.StepResult) (SignUpOutcome, string) {
	if !result.Reachable() {
		return SignUpUnexpected, result.TransportErr.Error()
	}
	switch {
	case result.Status == http.StatusOK || result.Status == http.StatusCreated:
		return SignUpCreated, ""
	case result.Status == http.StatusConflict:
		return SignUpAlreadyExists, ""
	case result.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(result.BodyText()), "exist"):
		return SignUpAlreadyExists, ""
	default:
		return SignUpUnexpected, fmt.Sprintf("status %d: %s", result.Status, result.BodyText())
	}
}
