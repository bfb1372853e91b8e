package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// settingsPage is the view payload for the settings screen
type settingsPage struct {
	GoogleFit model.GoogleFitStatus
}

// showSettings renders the Google Fit connection state. A failed status
// probe deliberately reads as "not connected": an absent connection is
// the expected state for new users, not an error.
func (s *Server) showSettings(c *gin.Context) {
	page := settingsPage{}
	if status, err := s.client.GoogleFitStatus(c.Request.Context()); err == nil {
		page.GoogleFit = *status
	} else {
		s.logger.Debug("google fit status probe failed", zap.Error(err))
	}
	s.render(c, http.StatusOK, "settings.html", "Settings", page)
}

// handleGoogleFitConnect starts the OAuth flow and forwards the browser
// to the provider's consent page. A response without a redirect URL is a
// hard failure; nothing is redirected on it.
func (s *Server) handleGoogleFitConnect(c *gin.Context) {
	user, _ := s.session.Current()
	if user == nil {
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error=oauth_failed")
		return
	}

	oauthURL, err := s.client.InitiateGoogleFitAuth(c.Request.Context(), user.ID)
	if err != nil {
		s.logger.Error("failed to initiate google fit auth", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error=oauth_failed")
		return
	}

	c.Redirect(http.StatusSeeOther, oauthURL)
}

func (s *Server) handleGoogleFitDisconnect(c *gin.Context) {
	result, err := s.client.DisconnectGoogleFit(c.Request.Context())
	if err != nil || !result.Success {
		if err != nil {
			s.logger.Error("failed to disconnect google fit", zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error=oauth_failed")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/settings?success=google_fit_disconnected")
}

// handleOAuthCallback finishes the provider flow. The provider lands here
// with code and state; errors and missing parameters bounce back to the
// dashboard with the matching notice.
func (s *Server) handleOAuthCallback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		s.logger.Warn("oauth provider returned error", zap.String("error", providerErr))
		c.Redirect(http.StatusFound, "/dashboard?error=oauth_failed")
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.Redirect(http.StatusFound, "/dashboard?error=missing_parameters")
		return
	}

	result, err := s.client.CompleteGoogleFitAuth(c.Request.Context(), code, state)
	if err != nil || !result.Success {
		if err != nil {
			s.logger.Error("oauth code exchange failed", zap.Error(err))
		}
		c.Redirect(http.StatusFound, "/dashboard?error=token_exchange_failed")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard?success=google_fit_connected")
}
