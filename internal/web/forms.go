package web

import (
	"strings"

	"github.com/twinhealth/healthdash/internal/backend"
)

// loginForm carries the login page fields
type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (f *loginForm) validate() map[string][]string {
	problems := map[string][]string{}
	if strings.TrimSpace(f.Username) == "" {
		problems["username"] = append(problems["username"], "Please enter your username")
	}
	if f.Password == "" {
		problems["password"] = append(problems["password"], "Please enter your password")
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// registerForm carries the registration page fields
type registerForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
}

// validate applies the same pre-submit rules the registration form
// enforces: nothing here reaches the network on failure.
func (f *registerForm) validate() map[string][]string {
	problems := map[string][]string{}

	if len(strings.TrimSpace(f.Username)) < 3 {
		problems["username"] = append(problems["username"], "Username must be at least 3 characters")
	}
	if len(strings.TrimSpace(f.FirstName)) < 2 {
		problems["first_name"] = append(problems["first_name"], "First name must be at least 2 characters")
	}
	if len(strings.TrimSpace(f.LastName)) < 2 {
		problems["last_name"] = append(problems["last_name"], "Last name must be at least 2 characters")
	}
	if !strings.Contains(f.Email, "@") || strings.HasPrefix(f.Email, "@") || strings.HasSuffix(f.Email, "@") {
		problems["email"] = append(problems["email"], "Please enter a valid email address")
	}
	if len(f.Password) < 8 {
		problems["password"] = append(problems["password"], "Password must be at least 8 characters long")
	}
	if f.PasswordConfirm != f.Password {
		problems["password_confirm"] = append(problems["password_confirm"], "Passwords do not match")
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func (f *registerForm) request() backend.RegisterRequest {
	return backend.RegisterRequest{
		Username:        strings.TrimSpace(f.Username),
		Email:           strings.TrimSpace(f.Email),
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Password:        f.Password,
		PasswordConfirm: f.PasswordConfirm,
	}
}

// mergeFieldErrors folds server-side field errors into the local map so
// both end up attached to the same inputs.
func mergeFieldErrors(dst, src map[string][]string) map[string][]string {
	if dst == nil {
		dst = map[string][]string{}
	}
	for field, msgs := range src {
		dst[field] = append(dst[field], msgs...)
	}
	return dst
}
