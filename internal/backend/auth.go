package backend

import (
	"context"

	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// RegisterRequest carries the registration form fields
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// authResponse is the shape of both login and registration responses
type authResponse struct {
	Message string        `json:"message"`
	User    *model.User   `json:"user"`
	Tokens  *model.Tokens `json:"tokens"`
}

// Login exchanges credentials for a user and token pair. On success the
// token pair is persisted to durable storage before returning; on any
// failure nothing is written.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Session, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := c.newRequest(false).
		SetContext(ctx).
		SetBody(body).
		Post("/auth/login/")
	if err != nil {
		return nil, netErr(err, "Login failed")
	}

	var out authResponse
	if err := c.decode(resp, &out, "Login failed", false); err != nil {
		// Bad credentials come back as 400/401 depending on backend mood;
		// either way the caller sees an auth failure.
		if be, ok := err.(*Error); ok && be.Kind == KindValidation && len(be.Fields) == 0 {
			be.Kind = KindAuth
		}
		return nil, err
	}

	return c.establishSession(&out, "Login")
}

// Register creates an account and, like Login, returns an established
// session. Field-level rejections surface as a KindValidation error with
// the per-field message lists attached.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.Session, error) {
	resp, err := c.newRequest(false).
		SetContext(ctx).
		SetBody(req).
		Post("/auth/register/")
	if err != nil {
		return nil, netErr(err, "Registration failed")
	}

	var out authResponse
	if err := c.decode(resp, &out, "Registration failed", false); err != nil {
		return nil, err
	}

	return c.establishSession(&out, "Registration")
}

func (c *Client) establishSession(resp *authResponse, op string) (*model.Session, error) {
	if resp.User == nil || resp.Tokens == nil || resp.Tokens.Access == "" {
		return nil, &Error{
			Kind:    KindUnexpected,
			Message: op + " response is missing user or tokens",
		}
	}

	if err := c.tokens.Save(*resp.Tokens); err != nil {
		return nil, &Error{
			Kind:    KindUnexpected,
			Message: "Failed to persist credentials",
			cause:   err,
		}
	}

	c.logger.Info("session established",
		zap.String("operation", op),
		zap.String("username", resp.User.Username),
	)

	return &model.Session{User: resp.User, Tokens: *resp.Tokens}, nil
}
