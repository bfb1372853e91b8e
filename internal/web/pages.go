package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/dashboard"
)

// dashboardPage is the view payload for the main dashboard
type dashboardPage struct {
	Summary *dashboard.Summary
	Trends  []dashboard.TrendPoint
}

func (s *Server) showDashboard(c *gin.Context) {
	summary := s.dash.Summary(c.Request.Context())
	now := time.Now()

	s.render(c, http.StatusOK, "dashboard.html", "Dashboard", dashboardPage{
		Summary: summary,
		Trends:  dashboard.IllustrativeTrends(dashboard.DailySeed(now), 14, now),
	})
}

// handleSync re-runs the provider sync on demand; there is no automatic
// retry, a failed sync requires clicking again.
func (s *Server) handleSync(c *gin.Context) {
	if _, err := s.client.SyncLatestHealthData(c.Request.Context()); err != nil {
		s.logger.Warn("manual sync failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/dashboard?error=sync_failed")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?success=synced")
}
