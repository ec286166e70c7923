package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTelegramAPI is the Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// ConfigError reports missing Telegram credentials.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "telegram configuration not found: missing " + strings.Join(e.Missing, ", ")
}

// BotTokenSet reports whether the bot token was configured.
func (e *ConfigError) BotTokenSet() bool {
	return !e.has("TELEGRAM_BOT_TOKEN")
}

// ChatIDSet reports whether the chat id was configured.
func (e *ConfigError) ChatIDSet() bool {
	return !e.has("TELEGRAM_CHAT_ID")
}

func (e *ConfigError) has(name string) bool {
	for _, m := range e.Missing {
		if m == name {
			return true
		}
	}
	return false
}

// APIError is a non-2xx answer from the Bot API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error: status %d: %s", e.Status, e.Body)
}

// TelegramConfig holds the bot credentials.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

// TelegramClient sends messages to a single chat.
type TelegramClient struct {
	cfg  TelegramConfig
	http *http.Client
}

// NewTelegramClient creates a client. A nil httpClient gets a 10s timeout.
func NewTelegramClient(cfg TelegramConfig, httpClient *http.Client) *TelegramClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTelegramAPI
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TelegramClient{cfg: cfg, http: httpClient}
}

// CheckConfig returns a *ConfigError naming each missing variable.
func (c *TelegramClient) CheckConfig() error {
	var missing []string
	if c.cfg.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.cfg.ChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// SendMessage posts Markdown text to the configured chat.
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	if err := c.CheckConfig(); err != nil {
		return err
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                c.cfg.ChatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
