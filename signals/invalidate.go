// Package signals notifies the hosting frontend that cached output for
// a path is stale. The notification is best effort: failures are
// logged, never propagated to the mutation that triggered them.
package signals

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/pixvault/pixvault/config"
	"github.com/rs/zerolog/log"
)

type Invalidator interface {
	Invalidate(path string)
}

// Webhook posts invalidation requests to the frontend's revalidate
// endpoint with a shared secret.
type Webhook struct {
	url    string
	secret string
	client *http.Client
}

func NewWebhook(cfg config.RevalidateConfig) *Webhook {
	return &Webhook{
		url:    cfg.URL,
		secret: cfg.Secret,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (w *Webhook) Invalidate(path string) {
	if w.url == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to encode invalidation payload")
		return
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to build invalidation request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set("X-Revalidate-Secret", w.secret)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Cache invalidation request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Cache invalidation rejected")
	}
}

// Nop discards invalidation signals. Used when no frontend webhook is
// configured and in tests.
type Nop struct{}

func (Nop) Invalidate(string) {}
