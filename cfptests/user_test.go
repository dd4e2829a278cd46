package cfptests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTestUserIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		u := NewTestUser()
		assert.False(t, seen[u.Email], "duplicate email %s", u.Email)
		seen[u.Email] = true
	}
}

func TestNewTestUserFields(t *testing.T) {
	u := NewTestUser()
	assert.True(t, strings.HasPrefix(u.Email, "cfp-test+"))
	assert.True(t, strings.HasSuffix(u.Email, "@example.com"))
	assert.NotEmpty(t, u.Username)
	assert.NotEmpty(t, u.Password)
	assert.Regexp(t, `^\+5511[0-9]{9}$`, u.Phone)

	body := u.signUpBody()
	assert.Equal(t, u.Email, body["email"])
	assert.Equal(t, u.Phone, body["phone"])
	assert.Equal(t, map[string]interface{}{"email": u.Email, "password": u.Password}, u.signInBody())
}

func TestExistingTestUser(t *testing.T) {
	u := ExistingTestUser("someone@example.com", "pw")
	assert.Equal(t, "someone", u.Username)
	assert.Equal(t, "someone@example.com", u.Email)
	assert.Equal(t, "pw", u.Password)
	_, hasPhone := u.signUpBody()["phone"]
	assert.False(t, hasPhone)
}
