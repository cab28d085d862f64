// Package telegram delivers the run summary to a Telegram chat through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Telegram rejects messages longer than this.
const maxMessageLen = 4096

// Notifier sends messages to one chat. The zero value is not usable; see NewNotifier.
type Notifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewNotifier returns a Notifier, or nil when a credential is missing.
// A nil Notifier is safe to call and sends nothing.
func NewNotifier(token, chatID string, log zerolog.Logger) *Notifier {
	if token == "" || chatID == "" {
		log.Warn().Msg("Telegram credentials missing, notifications disabled")
		return nil
	}
	return &Notifier{
		token:   token,
		chatID:  chatID,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// WithBaseURL points the notifier at another Bot API server.
func (n *Notifier) WithBaseURL(baseURL string) *Notifier {
	if n != nil {
		n.baseURL = baseURL
	}
	return n
}

// Notify sends text as a Markdown message. Texts over the Telegram limit are truncated.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if n == nil {
		return nil
	}
	text = truncate(text, maxMessageLen)

	payload := map[string]string{
		"chat_id":    n.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	n.log.Debug().Int("bytes", len(text)).Msg("Telegram notify")

	resp, err := n.client.Do(req)
	if err != nil {
		// The URL carries the token; never let it reach the logs.
		return fmt.Errorf("telegram send failed: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API error: status %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}

// redact drops the request URL from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

// truncate shortens text to at most limit characters, ending in "...".
// It cuts on a rune boundary so the message stays valid UTF-8.
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut, n := 0, 0
	for i := range text {
		if n == limit-3 {
			cut = i
			break
		}
		n++
	}
	return text[:cut] + "..."
}
