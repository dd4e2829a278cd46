package cfptests

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TestUser is the identity that a run signs up and authenticates with.
type TestUser struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// NewTestUser generates an identity that will not collide with one generated by any other
// run, so that runs against the same service can happen in parallel.
func NewTestUser() TestUser {
	id := uuid.New()
	short := strings.ReplaceAll(id.String(), "-", "")[:12]
	var phone strings.Builder
	phone.WriteString("+5511")
	for _, b := range id[:9] {
		phone.WriteByte('0' + b%10)
	}
	return TestUser{
		Username: "cfp-test-" + short,
		Email:    fmt.Sprintf("cfp-test+%s@example.com", short),
		Password: "Pw-" + short,
		Phone:    phone.String(),
	}
}

// ExistingTestUser describes an account that is expected to exist already.
func ExistingTestUser(email, password string) TestUser {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return TestUser{Username: name, Email: email, Password: password}
}

func (u TestUser) signUpBody() map[string]interface{} {
	body := map[string]interface{}{
		"name":     u.Username,
		"username": u.Username,
		"email":    u.Email,
		"password": u.Password,
	}
	if u.Phone != "" {
		body["phone"] = u.Phone
	}
	return body
}

func (u TestUser) signInBody() map[string]interface{} {
	return map[string]interface{}{
		"email":    u.Email,
		"password": u.Password,
	}
}
