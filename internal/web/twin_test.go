package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinhealth/healthdash/internal/dashboard"
)

func TestTwin_PageRenders(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	env.login()

	w := env.get("/dashboard/twin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "my.spline.design")
	assert.Contains(t, w.Body.String(), "Illustrative data")
}

func TestVitalsFeed_StreamsFrames(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	env.login()

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/vitals"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame dashboard.VitalsFrame
	require.NoError(t, conn.ReadJSON(&frame))

	assert.True(t, frame.Illustrate)
	assert.GreaterOrEqual(t, frame.HeartRate, 50.0)
	assert.LessOrEqual(t, frame.HeartRate, 120.0)
	assert.NotEmpty(t, frame.At)
}
