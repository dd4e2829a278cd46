package cfptests

import (
	"net/http"

	"github.com/cfp-server/cfp-contract-tests/framework"
)

func transactionBody(categoryID string) map[string]interface{} {
	return map[string]interface{}{
		"categoryId":  categoryID,
		"amount":      50,
		"description": "Almoço",
	}
}

func DoTransactionTests(t *T) {
	t.Run("add category for transactions", addCategory("Restaurantes", "expense", SessionKeyTransactionCategoryID))

	t.Run("add transaction", func(t *T) {
		categoryID := t.RequireSessionValue(SessionKeyTransactionCategoryID)
		t.Check(t.Authorized(postJSON(pathAddTransaction, transactionBody(categoryID))),
			framework.Expectation{Status: http.StatusOK})
	})

	t.Run("add transaction without session", func(t *T) {
		t.CheckNotAuthorized(postJSON(pathAddTransaction, transactionBody("unknown")))
	})

	t.Run("delete category for transactions", deleteCategory(SessionKeyTransactionCategoryID))
}
