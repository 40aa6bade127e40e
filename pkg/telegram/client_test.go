package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{baseURL: server.URL, httpClient: server.Client()}
}

func TestSendMessageReturnsMessageID(t *testing.T) {
	var got sendMessageRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true, "result": {"message_id": 77}}`))
	})

	keyboard := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{{Text: "Confirmar", CallbackData: "confirm:h1"}}},
	}
	id, err := client.SendMessage(context.Background(), 42, "Olá", keyboard)

	assert.NoError(t, err)
	assert.Equal(t, 77, id)
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "Olá", got.Text)
	assert.Equal(t, "confirm:h1", got.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestAPIErrorsSurfaceDescription(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error_code": 400, "description": "Bad Request: chat not found"}`))
	})

	_, err := client.SendMessage(context.Background(), 42, "Olá", nil)

	assert.ErrorContains(t, err, "chat not found")
}

func TestGetUpdatesDecodesMessagesAndCallbacks(t *testing.T) {
	var got getUpdatesRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getUpdates", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true, "result": [
			{"update_id": 1, "message": {"message_id": 10, "chat": {"id": 42, "type": "private"}, "text": "Reunião amanhã"}},
			{"update_id": 2, "callback_query": {"id": "cb1", "data": "confirm:h1", "message": {"message_id": 11, "chat": {"id": 42, "type": "private"}}}}
		]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 5, 30)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), got.Offset)
	assert.Equal(t, 30, got.Timeout)
	if assert.Len(t, updates, 2) {
		assert.Equal(t, "Reunião amanhã", updates[0].Message.Text)
		assert.Equal(t, "confirm:h1", updates[1].CallbackQuery.Data)
	}
}

func TestEditMessageKeyboardAndAnswerCallback(t *testing.T) {
	var paths []string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"ok": true, "result": true}`))
	})

	assert.NoError(t, client.EditMessageKeyboard(context.Background(), 42, 10, nil))
	assert.NoError(t, client.AnswerCallback(context.Background(), "cb1", "Evento criado"))
	assert.Equal(t, []string{"/editMessageReplyMarkup", "/answerCallbackQuery"}, paths)
}
