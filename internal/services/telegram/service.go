// Package telegram announces sent magic packets in a Telegram chat.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fgeck/wakegate/internal/models"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	requestTimeout = 30 * time.Second
)

// Service defines the interface for wake notifications.
type Service interface {
	SendNotification(ctx context.Context, cfg models.TelegramConfig, msg models.TelegramMessage) (*models.TelegramResult, error)
}

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Impl implements the Telegram Service interface.
type Impl struct {
	httpClient HTTPClient
	logger     zerolog.Logger
	baseURL    string
}

// New creates a new Telegram service talking to the public Bot API.
func New(logger zerolog.Logger) *Impl {
	return NewWithClient(logger, &http.Client{Timeout: requestTimeout}, defaultBaseURL)
}

// NewWithClient creates a new Telegram service with a custom HTTP client (for testing).
func NewWithClient(logger zerolog.Logger, httpClient HTTPClient, baseURL string) *Impl {
	return &Impl{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// sendMessageRequest is the body of the Bot API sendMessage call.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the envelope of every Bot API reply.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendNotification posts a "Wake-on-LAN sent" message for msg to the
// configured chat. Delivery problems are reported in the result, not as
// an error, so a failed notification never fails the wake.
func (s *Impl) SendNotification(ctx context.Context, cfg models.TelegramConfig, msg models.TelegramMessage) (*models.TelegramResult, error) {
	result := &models.TelegramResult{}
	logger := s.logger.With().Str("mac", msg.MAC).Str("chat_id", cfg.ChatID).Logger()

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(sendMessageRequest{
		ChatID:    cfg.ChatID,
		Text:      formatMessage(msg),
		ParseMode: "HTML",
	}); err != nil {
		result.Error = fmt.Errorf("encoding wake notification: %w", err)
		return result, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(cfg.BotToken, "sendMessage"), &body)
	if err != nil {
		result.Error = fmt.Errorf("building wake notification request: %w", err)
		return result, nil
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug().Msg("posting wake notification")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("posting wake notification: %w", err)
		return result, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		result.Error = apiError(resp)
		return result, nil
	}

	result.MessageSent = true
	logger.Info().Msg("wake notification delivered")

	return result, nil
}

// endpoint never appears in logs, it contains the bot token.
func (s *Impl) endpoint(token, method string) string {
	return fmt.Sprintf("%s/bot%s/%s", s.baseURL, token, method)
}

// apiError describes a non-200 reply, including the API's description
// when the body carries one.
func apiError(resp *http.Response) error {
	var reply apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&reply); err == nil && reply.Description != "" {
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, reply.Description)
	}
	return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
}

func formatMessage(msg models.TelegramMessage) string {
	var b strings.Builder

	b.WriteString("⏰ <b>Wake-on-LAN sent</b>\n\n")
	fmt.Fprintf(&b, "<b>MAC:</b> <code>%s</code>\n", escapeHTML(msg.MAC))
	if msg.RemoteAddr != "" {
		fmt.Fprintf(&b, "<b>Requested by:</b> %s\n", escapeHTML(msg.RemoteAddr))
	}
	fmt.Fprintf(&b, "<b>Broadcast:</b> %s:%d\n", escapeHTML(msg.BroadcastAddress), msg.Port)
	fmt.Fprintf(&b, "<b>Sent:</b> %s\n", msg.SentAt.Format(time.DateTime))

	return b.String()
}

var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;")

// escapeHTML escapes the characters Telegram's HTML parse mode reserves.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
