package serializers

import (
	"net/mail"
	"regexp"

	"github.com/devcheck/devcheck-be/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// RegisterInput is the payload of an open registration. Password is
// write-only: it is hashed by the user service and never echoed back.
type RegisterInput struct {
	Username Field[string] `json:"username"`
	Email    Field[string] `json:"email"`
	Password Field[string] `json:"password"`
}

func (in RegisterInput) Validate() error {
	verr := &ValidationError{}
	checkUsername(verr, in.Username, false)
	checkEmail(verr, in.Email)
	checkText(verr, "password", in.Password, false, textRule{required: true, maxLen: 128})
	return verr.Err()
}

// ProfileInput updates the authenticated user's own account.
type ProfileInput struct {
	Username Field[string] `json:"username"`
	Email    Field[string] `json:"email"`
	Password Field[string] `json:"password"`
}

func (in ProfileInput) Validate(partial bool) error {
	verr := &ValidationError{}
	checkUsername(verr, in.Username, partial)
	checkEmail(verr, in.Email)
	checkText(verr, "password", in.Password, true, textRule{maxLen: 128})
	return verr.Err()
}

// Apply copies the non-secret fields onto u. The password is handled by the
// caller, which owns hashing.
func (in ProfileInput) Apply(u *models.User) {
	if in.Username.Set {
		u.Username = in.Username.Value
	}
	if in.Email.Set {
		u.Email = in.Email.Value
	}
}

// Credentials is the token request payload.
type Credentials struct {
	Username Field[string] `json:"username"`
	Password Field[string] `json:"password"`
}

func (in Credentials) Validate() error {
	verr := &ValidationError{}
	checkText(verr, "username", in.Username, false, textRule{required: true})
	checkText(verr, "password", in.Password, false, textRule{required: true})
	return verr.Err()
}

// RefreshInput carries a refresh token.
type RefreshInput struct {
	Refresh Field[string] `json:"refresh"`
}

func (in RefreshInput) Validate() error {
	verr := &ValidationError{}
	checkText(verr, "refresh", in.Refresh, false, textRule{required: true})
	return verr.Err()
}

func checkUsername(verr *ValidationError, f Field[string], partial bool) {
	checkText(verr, "username", f, partial, textRule{required: true, maxLen: models.UsernameMaxLen})
	if _, bad := verr.Fields["username"]; bad || !f.Set {
		return
	}
	if !usernamePattern.MatchString(f.Value) {
		verr.Add("username", "enter a valid username: letters, numbers and @/./+/-/_ only")
	}
}

func checkEmail(verr *ValidationError, f Field[string]) {
	if !f.Set {
		return
	}
	if f.Null {
		verr.Add("email", reasonNull)
		return
	}
	if f.Value == "" {
		return
	}
	addr, err := mail.ParseAddress(f.Value)
	if err != nil || addr.Address != f.Value {
		verr.Add("email", "enter a valid email address")
	}
}
