package cfptests

import (
	"net/http"
	"strings"

	"github.com/cfp-server/cfp-contract-tests/framework"
)

const (
	pathSignUp          = "/user/signup"
	pathSignIn          = "/user/signin"
	pathSignOut         = "/user/signout"
	pathProtectedRoute  = "/user/protectedRoute"
	pathAddCategory     = "/category/addCategory"
	pathGetCategory     = "/category/getCategory"
	pathDeleteCategory  = "/category/deleteCategory/"
	pathGoalsLimits     = "/meta/goals-limits"
	pathAddTransaction  = "/transaction/addTransaction"
	messageUnauthorized = "User not authorized"
)

// Keys for values that are captured in the run's session.
const (
	SessionKeyCookie                = "auth-cookie"
	SessionKeyToken                 = "auth-token"
	SessionKeyCategoryID            = "category-id"
	SessionKeyGoalCategoryID        = "goal-category-id"
	SessionKeyGoalID                = "goal-id"
	SessionKeyTransactionCategoryID = "transaction-category-id"
)

// Places in a creation response where the new resource's id may be found.
var (
	categoryIDPaths = []string{"categoryId", "category._id", "category.id", "data._id", "data.id", "_id", "id"}
	goalIDPaths     = []string{"goalLimit._id", "goalLimit.id", "goal._id", "goal.id", "data._id", "data.id", "_id", "id"}
	tokenPaths      = []string{"token", "data.token", "accessToken"}
)

func getRequest(path string) framework.Request {
	return framework.Request{Method: http.MethodGet, Path: path}
}

func deleteRequest(path string) framework.Request {
	return framework.Request{Method: http.MethodDelete, Path: path}
}

func postJSON(path string, body interface{}) framework.Request {
	return framework.Request{Method: http.MethodPost, Path: path, JSONBody: body}
}

func putJSON(path string, body interface{}) framework.Request {
	return framework.Request{Method: http.MethodPut, Path: path, JSONBody: body}
}

// malformedJSON builds a write request whose body is not valid JSON, declared with the given
// content type.
func malformedJSON(method, path, contentType string) framework.Request {
	return framework.Request{
		Method:  method,
		Path:    path,
		RawBody: []byte(`{"categoryName": "Alimentação", "categoryType": `),
		Headers: http.Header{"Content-Type": []string{contentType}},
	}
}

func signUpRequest(u TestUser) framework.Request {
	return postJSON(pathSignUp, u.signUpBody())
}

func signInRequest(u TestUser) framework.Request {
	return postJSON(pathSignIn, u.signInBody())
}

// authorize adds whatever credentials the session holds. Credentials are sent exactly as
// they were captured at sign-in.
func authorize(session *framework.Session, req framework.Request) framework.Request {
	if cookie, ok := session.Get(SessionKeyCookie); ok {
		req = req.WithHeader("Cookie", cookie)
	}
	if token, ok := session.Get(SessionKeyToken); ok {
		req = req.WithHeader("Authorization", "Bearer "+token)
	}
	return req
}

// sessionCookieHeader turns the Set-Cookie headers of a response into a Cookie header value.
// The name=value part of each cookie is kept exactly as the service sent it, in order;
// attributes and cleared cookies are dropped.
func sessionCookieHeader(headers http.Header) string {
	var parts []string
	for _, setCookie := range headers.Values("Set-Cookie") {
		pair := strings.TrimSpace(strings.SplitN(setCookie, ";", 2)[0])
		eq := strings.Index(pair, "=")
		if eq <= 0 || eq == len(pair)-1 || pair[eq+1:] == `""` {
			continue
		}
		parts = append(parts, pair)
	}
	return strings.Join(parts, "; ")
}

func notAuthorizedExpectation() framework.Expectation {
	return framework.Expectation{
		Status: http.StatusBadRequest,
		JSONLike: framework.JSONLike(map[string]interface{}{
			"success": false,
			"message": messageUnauthorized,
		}),
	}
}
