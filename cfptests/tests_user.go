package cfptests

import (
	"net/http"

	"github.com/cfp-server/cfp-contract-tests/framework"

	"github.com/stretchr/testify/assert"
)

func DoUserTests(t *T) {
	t.Run("sign up with a new identity", func(t *T) {
		newUser := NewTestUser()
		t.Check(signUpRequest(newUser), framework.Expectation{
			Status:         http.StatusCreated,
			AcceptStatuses: []int{http.StatusOK},
			JSONLike: framework.JSONLike(map[string]interface{}{
				"success": true,
				"message": "User created successfully",
			}),
		})
	})

	t.Run("sign up with malformed JSON", func(t *T) {
		t.Check(malformedJSON(http.MethodPost, pathSignUp, "application/json"),
			framework.Expectation{Status: http.StatusBadRequest})
	})

	t.Run("sign in with unknown credentials", func(t *T) {
		t.Check(signInRequest(NewTestUser()), framework.Expectation{Status: http.StatusBadRequest})
	})

	t.Run("sign in with the test identity", func(t *T) {
		result := t.Check(signInRequest(t.User()), framework.Expectation{
			Status: http.StatusOK,
			JSONLike: framework.JSONLike(map[string]interface{}{
				"success": true,
				"message": "User signed in successfully",
			}),
		})
		_, hasToken := framework.ExtractString(result.JSON, tokenPaths...)
		hasCookie := sessionCookieHeader(result.Headers) != ""
		assert.True(t, hasToken || hasCookie, "sign-in response should carry a session token or cookie")
	})

	t.Run("protected route with session", func(t *T) {
		t.Check(t.Authorized(getRequest(pathProtectedRoute)), framework.Expectation{
			Status:   http.StatusOK,
			JSONLike: framework.JSONLike(map[string]interface{}{"success": true}),
		})
	})

	t.Run("protected route without session", func(t *T) {
		t.CheckNotAuthorized(getRequest(pathProtectedRoute))
	})

	t.Run("sign out without session", func(t *T) {
		t.CheckNotAuthorized(getRequest(pathSignOut))
	})
}
