package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// GoogleFitStatus fetches the current connection state. Failures here are
// real errors; the dashboard layer downgrades them to "not connected"
// because an absent connection is the expected state for new users.
func (c *Client) GoogleFitStatus(ctx context.Context) (*model.GoogleFitStatus, error) {
	resp, err := c.newRequest(true).
		SetContext(ctx).
		Get("/google-fit/auth/status/")
	if err != nil {
		return nil, netErr(err, "Failed to get Google Fit status")
	}

	var status model.GoogleFitStatus
	if err := c.decode(resp, &status, "Failed to get Google Fit status", true); err != nil {
		return nil, err
	}
	return &status, nil
}

// InitiateGoogleFitAuth asks the backend to start the OAuth flow for the
// given user and returns the redirect URL. A response without oauth_url
// is a hard provider error; no redirect is attempted on it.
func (c *Client) InitiateGoogleFitAuth(ctx context.Context, userID int) (string, error) {
	body := map[string]string{
		"state": fmt.Sprintf("user_%d", userID),
	}

	resp, err := c.newRequest(true).
		SetContext(ctx).
		SetBody(body).
		Post("/google-fit/auth/initiate/")
	if err != nil {
		return "", netErr(err, "Failed to initiate Google Fit authentication")
	}

	var out struct {
		OAuthURL string `json:"oauth_url"`
		Message  string `json:"message"`
	}
	if err := c.decode(resp, &out, "Failed to initiate Google Fit authentication", true); err != nil {
		return "", err
	}
	if out.OAuthURL == "" {
		return "", providerErr("No OAuth URL received from server")
	}

	c.logger.Info("google fit auth initiated", zap.Int("user_id", userID))

	return out.OAuthURL, nil
}

// CompleteGoogleFitAuth exchanges the authorization code delivered to the
// OAuth callback. A non-success result is surfaced as connection failure.
func (c *Client) CompleteGoogleFitAuth(ctx context.Context, code, state string) (*model.ConnectResult, error) {
	body := map[string]string{
		"code":  code,
		"state": state,
	}

	resp, err := c.newRequest(true).
		SetContext(ctx).
		SetBody(body).
		Post("/google-fit/auth/callback/")
	if err != nil {
		return nil, netErr(err, "Failed to complete Google Fit authentication")
	}

	var result model.ConnectResult
	if err := c.decode(resp, &result, "Failed to complete Google Fit authentication", true); err != nil {
		return nil, err
	}
	return &result, nil
}

// DisconnectGoogleFit revokes the connection. The call is idempotent:
// revoking an already-disconnected account still succeeds.
func (c *Client) DisconnectGoogleFit(ctx context.Context) (*model.ConnectResult, error) {
	resp, err := c.newRequest(true).
		SetContext(ctx).
		Delete("/google-fit/auth/disconnect/")
	if err != nil {
		return nil, netErr(err, "Failed to disconnect Google Fit")
	}

	var result model.ConnectResult
	if err := c.decode(resp, &result, "Failed to disconnect Google Fit", true); err != nil {
		return nil, err
	}

	c.logger.Info("google fit disconnected", zap.Bool("success", result.Success))

	return &result, nil
}

// SyncLatestHealthData triggers a server-side pull from the fitness
// provider and returns the latest snapshot.
func (c *Client) SyncLatestHealthData(ctx context.Context) (*model.HealthSnapshot, error) {
	resp, err := c.newRequest(true).
		SetContext(ctx).
		Post("/google-fit/sync-and-get-latest/")
	if err != nil {
		return nil, netErr(err, "Failed to sync and get health data")
	}

	var snapshot model.HealthSnapshot
	if err := c.decode(resp, &snapshot, "Failed to sync and get health data", true); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
