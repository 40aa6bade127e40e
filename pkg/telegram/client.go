package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agendou/agendou/internal/config"
)

const apiBase = "https://api.telegram.org/bot"

// Client talks to the Telegram Bot API over plain HTTP. The transport
// timeout leaves room for a full long-poll cycle; individual sends are
// bounded by their caller's context instead.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.Telegram) *Client {
	return &Client{
		baseURL: apiBase + cfg.BotToken,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.PollTimeoutSeconds+10) * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatID      int64                 `json:"chat_id"`
	Text        string                `json:"text"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type editMarkupRequest struct {
	ChatID      int64                 `json:"chat_id"`
	MessageID   int                   `json:"message_id"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

type answerCallbackRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// SendMessage sends text with an optional inline keyboard and returns the
// new message's id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) (int, error) {
	result, err := c.apiCall(ctx, "sendMessage", sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		return 0, err
	}
	var sent Message
	if err := json.Unmarshal(result, &sent); err != nil {
		return 0, fmt.Errorf("telegram: decoding sendMessage result: %w", err)
	}
	return sent.MessageID, nil
}

// EditMessageKeyboard replaces a message's inline keyboard. A nil keyboard
// removes it.
func (c *Client) EditMessageKeyboard(ctx context.Context, chatID int64, messageID int, keyboard *InlineKeyboardMarkup) error {
	_, err := c.apiCall(ctx, "editMessageReplyMarkup", editMarkupRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: keyboard,
	})
	return err
}

// AnswerCallback acknowledges a button press so the client stops showing a
// loading state. Text, when set, appears as a toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	_, err := c.apiCall(ctx, "answerCallbackQuery", answerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	result, err := c.apiCall(ctx, "getUpdates", getUpdatesRequest{
		Offset:         offset,
		Timeout:        timeoutSeconds,
		AllowedUpdates: []string{"message", "callback_query"},
	})
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("telegram: decoding updates: %w", err)
	}
	return updates, nil
}

func (c *Client) apiCall(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telegram: encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("telegram: building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("telegram: reading %s response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("telegram: decoding %s response: %w", method, err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram: %s failed with code %d: %s", method, parsed.ErrorCode, parsed.Description)
	}
	return parsed.Result, nil
}
