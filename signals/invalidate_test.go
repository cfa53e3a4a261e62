package signals

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pixvault/pixvault/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookInvalidate(t *testing.T) {
	var (
		gotPath   string
		gotSecret string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotPath = payload["path"]
		gotSecret = r.Header.Get("X-Revalidate-Secret")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hook := NewWebhook(config.RevalidateConfig{
		URL:     server.URL,
		Secret:  "s3cret",
		Timeout: time.Second,
	})
	hook.Invalidate("/profile")

	assert.Equal(t, "/profile", gotPath)
	assert.Equal(t, "s3cret", gotSecret)
}

func TestWebhookInvalidateUnconfigured(t *testing.T) {
	hook := NewWebhook(config.RevalidateConfig{Timeout: time.Second})

	// Must be a no-op, not a panic or a hang.
	hook.Invalidate("/")
}
