package cfptests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cfp-server/cfp-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlogtest"
)

func TestFlowPhases(t *testing.T) {
	service := newFakeService()
	httphelpers.WithServer(service, func(server *httptest.Server) {
		flow := NewFlow(framework.NewExecutor(server.URL, time.Second), NewTestUser(), ldlog.NewDisabledLoggers())
		assert.Equal(t, PhaseInit, flow.Phase())
		assert.Error(t, flow.BeginTests())

		require.NoError(t, flow.Authenticate(context.Background()))
		assert.Equal(t, PhaseAuthenticated, flow.Phase())
		assert.True(t, flow.Session().Has(SessionKeyCookie))
		assert.True(t, flow.Session().Has(SessionKeyToken))
		assert.Error(t, flow.Authenticate(context.Background()))

		require.NoError(t, flow.BeginTests())
		assert.Equal(t, PhaseRunning, flow.Phase())

		flow.TearDown(context.Background())
		assert.Equal(t, PhaseTornDown, flow.Phase())
		assert.Equal(t, 1, service.signOutCount())

		flow.TearDown(context.Background())
		assert.Equal(t, 1, service.signOutCount(), "teardown happens only once")
	})
}

func TestFlowAbortsWithoutCredentials(t *testing.T) {
	handler := overridePath(pathSignIn,
		httphelpers.HandlerWithJSONResponse(map[string]interface{}{"success": true}, nil),
		httphelpers.HandlerWithStatus(201))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		mockLog := ldlogtest.NewMockLog()
		flow := NewFlow(framework.NewExecutor(server.URL, time.Second), NewTestUser(), mockLog.Loggers)

		err := flow.Authenticate(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotAuthenticated))
		assert.Contains(t, err.Error(), "no session cookie or token")
		assert.Equal(t, PhaseAborted, flow.Phase())
		assert.True(t, mockLog.HasMessageMatch(ldlog.Error, "Aborting test run"))

		flow.TearDown(context.Background())
		assert.Equal(t, PhaseAborted, flow.Phase())
	})
}

func TestFlowAbortsWhenSignInIsRejected(t *testing.T) {
	handler := overridePath(pathSignIn, httphelpers.HandlerWithStatus(400), httphelpers.HandlerWithStatus(201))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		flow := NewFlow(framework.NewExecutor(server.URL, time.Second), NewTestUser(), ldlog.NewDisabledLoggers())
		err := flow.Authenticate(context.Background())
		assert.True(t, errors.Is(err, ErrNotAuthenticated))
		assert.Contains(t, err.Error(), "status 400")
	})
}

func TestUnexpectedSignUpResultIsOnlyLogged(t *testing.T) {
	service := newFakeService()
	handler := overridePath(pathSignUp, httphelpers.HandlerWithStatus(503), service)
	service.register("someone@example.com", "pw")
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		mockLog := ldlogtest.NewMockLog()
		flow := NewFlow(framework.NewExecutor(server.URL, time.Second), ExistingTestUser("someone@example.com", "pw"), mockLog.Loggers)

		require.NoError(t, flow.Authenticate(context.Background()))
		assert.True(t, mockLog.HasMessageMatch(ldlog.Warn, "unexpected result"))
	})
}

func TestClassifySignUp(t *testing.T) {
	result := func(status int, body string) framework.StepResult {
		return framework.StepResult{Status: status, Body: []byte(body)}
	}
	testCases := []struct {
		name     string
		result   framework.StepResult
		expected SignUpOutcome
	}{
		{"created", result(201, `{"success":true}`), SignUpCreated},
		{"ok", result(200, `{"success":true}`), SignUpCreated},
		{"conflict", result(409, ``), SignUpAlreadyExists},
		{"bad request mentioning existing user", result(400, `{"message":"User already exists"}`), SignUpAlreadyExists},
		{"other bad request", result(400, `{"message":"Invalid email"}`), SignUpUnexpected},
		{"server error", result(500, ``), SignUpUnexpected},
		{"unreachable", framework.StepResult{TransportErr: errors.New("refused")}, SignUpUnexpected},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, _ := classifySignUp(tc.result)
			assert.Equal(t, tc.expected, outcome)
		})
	}
}

func TestSessionCookieHeader(t *testing.T) {
	headers := http.Header{}
	headers.Add("Set-Cookie", "token=abc; Path=/; HttpOnly")
	headers.Add("Set-Cookie", "theme=dark")
	headers.Add("Set-Cookie", "cleared=; Max-Age=0")
	assert.Equal(t, "token=abc; theme=dark", sessionCookieHeader(headers))
	assert.Equal(t, "", sessionCookieHeader(http.Header{}))
}

func TestSessionCookieHeaderKeepsValuesVerbatim(t *testing.T) {
	headers := http.Header{}
	headers.Add("Set-Cookie", `session="a b=c"; HttpOnly; Path=/`)
	headers.Add("Set-Cookie", "token=abc;Secure")
	headers.Add("Set-Cookie", `empty=""`)
	assert.Equal(t, `session="a b=c"; token=abc`, sessionCookieHeader(headers))
}

func TestAuthorizeUsesCapturedCredentialsVerbatim(t *testing.T) {
	session := framework.NewSession()
	req := authorize(session, getRequest(pathProtectedRoute))
	assert.Empty(t, req.Headers)

	session.Capture(SessionKeyCookie, "token=abc")
	session.Capture(SessionKeyToken, "abc")
	req = authorize(session, getRequest(pathProtectedRoute))
	assert.Equal(t, "token=abc", req.Headers.Get("Cookie"))
	assert.Equal(t, "Bearer abc", req.Headers.Get("Authorization"))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "INIT", PhaseInit.String())
	assert.Equal(t, "TORN_DOWN", PhaseTornDown.String())
	assert.Equal(t, "Phase(42)", Phase(42).String())
}

func overridePath(path string, override, fallback http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == path {
			override.ServeHTTP(w, r)
			return
		}
		fallback.ServeHTTP(w, r)
	})
}
