package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/backend"
)

// authPage is the view payload shared by the login and register pages
type authPage struct {
	Form        map[string]string
	FieldErrors map[string][]string
	Message     string
}

func (s *Server) showLogin(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", "Sign in", authPage{})
}

func (s *Server) handleLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		s.render(c, http.StatusBadRequest, "login.html", "Sign in", authPage{Message: "Invalid form submission"})
		return
	}

	if problems := form.validate(); problems != nil {
		s.render(c, http.StatusBadRequest, "login.html", "Sign in", authPage{
			Form:        map[string]string{"username": form.Username},
			FieldErrors: problems,
		})
		return
	}

	sess, err := s.client.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("username", form.Username), zap.Error(err))
		s.render(c, statusFor(err), "login.html", "Sign in", authPage{
			Form:    map[string]string{"username": form.Username},
			Message: userMessage(err, "Login failed"),
		})
		return
	}

	s.session.Establish(sess.User)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) showRegister(c *gin.Context) {
	s.render(c, http.StatusOK, "register.html", "Create account", authPage{})
}

func (s *Server) handleRegister(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		s.render(c, http.StatusBadRequest, "register.html", "Create account", authPage{Message: "Invalid form submission"})
		return
	}

	// Local validation blocks the submission before any network call.
	if problems := form.validate(); problems != nil {
		s.render(c, http.StatusBadRequest, "register.html", "Create account", authPage{
			Form:        form.values(),
			FieldErrors: problems,
		})
		return
	}

	sess, err := s.client.Register(c.Request.Context(), form.request())
	if err != nil {
		page := authPage{Form: form.values()}
		var be *backend.Error
		if errors.As(err, &be) && be.Kind == backend.KindValidation && len(be.Fields) > 0 {
			page.FieldErrors = mergeFieldErrors(nil, be.Fields)
		} else {
			page.Message = userMessage(err, "Registration failed")
		}
		s.render(c, statusFor(err), "register.html", "Create account", page)
		return
	}

	s.session.Establish(sess.User)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleLogout(c *gin.Context) {
	// Local-only: tokens are erased, the backend session is untouched.
	if err := s.client.Logout(); err != nil {
		s.logger.Error("failed to clear stored tokens", zap.Error(err))
	}
	s.session.Logout()
	c.Redirect(http.StatusSeeOther, "/login")
}

// values echoes submitted fields back into the form, passwords excluded
func (f *registerForm) values() map[string]string {
	return map[string]string{
		"username":   f.Username,
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
	}
}

// userMessage extracts the human-readable message from a backend error
func userMessage(err error, fallback string) string {
	var be *backend.Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// statusFor picks a response status mirroring the failure kind
func statusFor(err error) int {
	var be *backend.Error
	if !errors.As(err, &be) {
		return http.StatusBadGateway
	}
	switch be.Kind {
	case backend.KindAuth:
		return http.StatusUnauthorized
	case backend.KindValidation:
		return http.StatusBadRequest
	case backend.KindNotFound:
		return http.StatusNotFound
	case backend.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
