package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"easypcm_backend/platform/config"
	"easypcm_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Sender is the outbound send contract the dialogue driver depends on.
// Sends are fire-and-forget; the driver never consumes delivery confirmation.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string, markup *ReplyMarkup) error
	SendPhoto(ctx context.Context, chatID string, photo []byte, caption string) error
}

// Client talks to the Telegram Bot API. Outbound calls are rate limited to
// stay under the Bot API's ~30 messages/second global cap.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

type sendMessageRequest struct {
	ChatID      string       `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *ReplyMarkup `json:"reply_markup,omitempty"`
}

// NewClient creates a Telegram client. Returns nil when no token is
// configured; a nil client silently drops all sends.
func NewClient(cfg config.TelegramConfig, log *logger.Logger) *Client {
	if cfg.GetTelegramBotToken() == "" {
		return nil
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetTelegramAPIBaseURL(), "/"),
		token:   cfg.GetTelegramBotToken(),
		http:    &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(25), 5),
		log:     log,
	}
}

// SendMessage posts a sendMessage call, optionally with a reply or inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID, text string, markup *ReplyMarkup) error {
	if c == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}

// SendPhoto posts a sendPhoto call with an in-memory image (multipart upload).
func (c *Client) SendPhoto(ctx context.Context, chatID string, photo []byte, caption string) error {
	if c == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", chatID); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("photo", "invite.png")
	if err != nil {
		return err
	}
	if _, err := part.Write(photo); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}

var _ Sender = (*Client)(nil)
