package cfptests

import (
	"net/http"

	"github.com/cfp-server/cfp-contract-tests/framework"
)

func addCategoryBody(name, kind string) map[string]interface{} {
	return map[string]interface{}{
		"categoryName": name,
		"categoryType": kind,
	}
}

// addCategory returns a test that creates a category and captures its id under the given
// session key.
func addCategory(name, kind, sessionKey string) func(*T) {
	return func(t *T) {
		result := t.Check(t.Authorized(postJSON(pathAddCategory, addCategoryBody(name, kind))), framework.Expectation{
			Status: http.StatusOK,
			JSONLike: framework.JSONLike(map[string]interface{}{
				"success": true,
				"message": "Category added successfully",
			}),
		})
		t.CaptureFromBody(sessionKey, result, categoryIDPaths...)
	}
}

// deleteCategory returns a test that deletes a category created by an earlier test.
func deleteCategory(sessionKey string) func(*T) {
	return func(t *T) {
		id := t.RequireSessionValue(sessionKey)
		if t.Expect(t.Send(t.Authorized(deleteRequest(pathDeleteCategory+id))),
			framework.Expectation{Status: http.StatusOK}) {
			t.Forget(sessionKey)
		}
	}
}

// deleteCategoryWithoutSession returns a test that tries to delete a category created by an
// earlier test without sending any credentials.
func deleteCategoryWithoutSession(sessionKey string) func(*T) {
	return func(t *T) {
		id := t.RequireSessionValue(sessionKey)
		t.CheckNotAuthorized(deleteRequest(pathDeleteCategory + id))
	}
}

func DoCategoryTests(t *T) {
	t.Run("add category", addCategory("Alimentação", "expense", SessionKeyCategoryID))

	t.Run("add category without session", func(t *T) {
		t.CheckNotAuthorized(postJSON(pathAddCategory, addCategoryBody("Alimentação", "expense")))
	})

	t.Run("add category with malformed JSON", func(t *T) {
		t.Check(t.Authorized(malformedJSON(http.MethodPost, pathAddCategory, "application/json")),
			framework.Expectation{Status: http.StatusBadRequest})
	})

	t.Run("add category with malformed JSON declared as text", func(t *T) {
		t.Check(t.Authorized(malformedJSON(http.MethodPost, pathAddCategory, "text/plain")),
			framework.Expectation{Status: http.StatusBadRequest})
	})

	t.Run("list categories", func(t *T) {
		expected := framework.Expectation{Status: http.StatusOK}
		if id, ok := t.SessionValue(SessionKeyCategoryID); ok {
			expected.BodyContains = []string{id}
		}
		t.Check(t.Authorized(getRequest(pathGetCategory)), expected)
	})

	t.Run("list categories without session", func(t *T) {
		t.CheckNotAuthorized(getRequest(pathGetCategory))
	})

	t.Run("delete category without session", deleteCategoryWithoutSession(SessionKeyCategoryID))

	t.Run("delete category", deleteCategory(SessionKeyCategoryID))
}
