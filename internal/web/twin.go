package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/dashboard"
)

// twinEmbedURL is the hosted 3D model the twin page embeds
const twinEmbedURL = "https://my.spline.design/untitled-gDQkmatQc8qeHm9NYbc7valn/"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Single-user local app served same-origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// twinPage is the view payload for the digital twin screen
type twinPage struct {
	EmbedURL string
	Metrics  []dashboard.Metric
}

func (s *Server) showTwin(c *gin.Context) {
	summary := s.dash.Summary(c.Request.Context())
	s.render(c, http.StatusOK, "twin.html", "Your twin", twinPage{
		EmbedURL: twinEmbedURL,
		Metrics:  summary.Metrics,
	})
}

// handleVitalsFeed streams illustrative vitals frames to the twin page
// over a websocket, one frame per tick, anchored to the latest synced
// snapshot. The loop ends when the client disconnects.
func (s *Server) handleVitalsFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("vitals feed upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	snapshot, err := s.client.SyncLatestHealthData(c.Request.Context())
	if err != nil {
		// Feed still runs from baselines when the sync probe fails.
		snapshot = nil
	}
	feed := dashboard.NewVitalsFeed(snapshot, time.Now().UnixNano())

	// Reads are only used to observe the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case now := <-ticker.C:
			if err := conn.WriteJSON(feed.Next(now)); err != nil {
				return
			}
		}
	}
}
